package martstatus

import (
	"encoding/json"
	"fmt"
	logger "log"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/martcast/martcast/business/data/mart"
	"github.com/nats-io/nats.go"
)

// runMartListener starts NATS subscription on martBatchSubject for mart.Batch messages.
// Stores results in martCollection. Ends NATS subscription and returns on shutdownSignal
func runMartListener(
	log *logger.Logger,
	wg *sync.WaitGroup,
	natsConn *nats.Conn,
	martCollection *martCollection,
	martBatchSubject string,
	shutdownSignal chan bool) error {
	ch := make(chan *nats.Msg, 64)
	log.Printf("Subscribing to mart batches on subject:%s on nats: %v\n", martBatchSubject, natsConn.Servers())
	sub, err := natsConn.ChanSubscribe(martBatchSubject, ch)
	if err != nil {
		return fmt.Errorf("unable to establish subscription to nats server: %w", err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case msg := <-ch:
				processMartBatchFromMsg(log, msg, martCollection)
			case <-shutdownSignal:
				log.Printf("ending mart listener on shutdown signal\n")
				err := sub.Unsubscribe()
				if err != nil {
					log.Printf("Error unsubscribing to nats:%s", err)
				}
				return
			}
		}
	}()
	return nil
}

// processMartBatchFromMsg un-marshal mart.Batch from nats.Msg and store its marts in martCollection
func processMartBatchFromMsg(log *logger.Logger, msg *nats.Msg, martCollection *martCollection) {
	var batch mart.Batch
	err := json.Unmarshal(msg.Data, &batch)
	if err != nil {
		log.Printf("error parsing mart batch: %s, payload:%s", err, string(msg.Data))
		return
	}
	added, err := martCollection.addBatch(&batch)
	if err != nil {
		log.Printf("error storing mart batch %s: %s", batch.RunId, err)
		return
	}
	log.Printf("Received batch %s for %s with %d marts, %d stored", batch.RunId,
		batch.BaseDate.Format("2006-01-02"), len(batch.Marts), added)
}

// seedMartCollection stores every mart recorded in the database in martCollection
func seedMartCollection(log *logger.Logger, db *sqlx.DB, martCollection *martCollection) error {
	marts, err := mart.GetAllMarts(db)
	if err != nil {
		return fmt.Errorf("unable to load marts from database: %w", err)
	}
	for i := range marts {
		wrapper, err := makeMartWrapper(&marts[i])
		if err != nil {
			return err
		}
		martCollection.addMart(wrapper)
	}
	log.Printf("Loaded %d marts from database", len(marts))
	return nil
}
