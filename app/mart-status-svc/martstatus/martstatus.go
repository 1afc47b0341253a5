// Package martstatus serves the latest resolved state of each mart, received over NATS, over http
package martstatus

import (
	"fmt"
	logger "log"
	"os"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
)

// Conf configures the mart status services
type Conf struct {
	HttpPort           int
	MartBatchSubject   string
	ExpireMartSeconds  int
	ExpireCheckSeconds int
}

// Validate reports settings that would keep the services from running
func (c Conf) Validate() error {
	if c.ExpireMartSeconds <= 0 {
		return fmt.Errorf("expire mart seconds must be positive, got %d", c.ExpireMartSeconds)
	}
	if c.ExpireCheckSeconds <= 0 {
		return fmt.Errorf("expire check seconds must be positive, got %d", c.ExpireCheckSeconds)
	}
	return nil
}

// StartServices brings up backgroundLoop, martListener and webservice. Exits on shutdown signal.
// When db is not nil the collection starts with the marts recorded in the database.
func StartServices(log *logger.Logger,
	db *sqlx.DB,
	natsConn *nats.Conn,
	conf Conf,
	shutdownSignal chan os.Signal) error {
	if err := conf.Validate(); err != nil {
		return err
	}

	wg := sync.WaitGroup{}

	//create shared container
	martCollection := makeMartCollection()
	if db != nil {
		if err := seedMartCollection(log, db, martCollection); err != nil {
			return err
		}
	}

	//create shutdown channels
	backgroundLoopShutdown := make(chan bool, 1)
	martListenerShutdown := make(chan bool, 1)
	webServiceShutdown := make(chan bool, 1)

	//start all child services
	err := runMartListener(log, &wg, natsConn, martCollection, conf.MartBatchSubject, martListenerShutdown)
	if err != nil {
		return err
	}
	wg.Add(2)
	go runBackgroundLoop(log, &wg, martCollection, backgroundLoopShutdown, conf)
	go runWebService(log, &wg, db, martCollection, conf.HttpPort, webServiceShutdown)

	<-shutdownSignal
	log.Printf("Exiting on shutdown signal, shutting down subroutines")
	backgroundLoopShutdown <- true
	martListenerShutdown <- true
	webServiceShutdown <- true
	wg.Wait()
	log.Printf("Subroutines shut down, exiting mart status service")
	return nil
}

// runBackgroundLoop periodically removes expired marts from martCollection
func runBackgroundLoop(log *logger.Logger,
	wg *sync.WaitGroup,
	martCollection *martCollection,
	shutdownSignal chan bool,
	conf Conf) {
	defer wg.Done()

	ticker := time.NewTicker(time.Duration(conf.ExpireCheckSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-shutdownSignal:
			log.Printf("Exiting background loop on shutdown signal")
			return
		case now := <-ticker.C:
			removed, currentSize := martCollection.expireMarts(now, conf.ExpireMartSeconds)
			log.Printf("Mart collection has %d marts. Removed %d expired marts", currentSize, removed)
		}
	}
}
