// Package martmanager provides support for retrieving store listings from mart chains, resolving their holidays
// and opening hours, and saving and publishing the results
package martmanager

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/martcast/martcast/business/data/mart"
	"github.com/martcast/martcast/business/holiday"
	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"
)

// Conf configures where marts are retrieved from and where results are sent
type Conf struct {
	EmartUrl         string
	CostcoUrl        string
	Subject          string
	RecordToDatabase bool
	PublishOverNats  bool
	Schedule         string
}

// makeSources returns the martSource for each of martTypes, all known sources when martTypes is empty
func makeSources(conf Conf, martTypes []string) ([]martSource, error) {
	available := []martSource{
		&emartSource{url: conf.EmartUrl},
		&costcoSource{url: conf.CostcoUrl},
	}
	if len(martTypes) == 0 {
		return available, nil
	}
	var results []martSource
	for _, martType := range martTypes {
		found := false
		for _, source := range available {
			if source.martType() == martType {
				results = append(results, source)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown mart type %q", martType)
		}
	}
	return results, nil
}

// LoadMarts retrieves the marts of martTypes (or all mart types when empty), resolves them as of reference,
// then records and publishes them according to conf
func LoadMarts(log *log.Logger,
	db *sqlx.DB,
	natsConnection *nats.Conn,
	conf Conf,
	martTypes []string,
	reference time.Time) error {
	sources, err := makeSources(conf, martTypes)
	if err != nil {
		return err
	}
	publisher := makeMartBatchPublisher(log, db, natsConnection, conf)
	_, err = updateMarts(context.Background(), log, publisher, sources, reference)
	return err
}

// updateMarts fetches every source concurrently, builds each store as of reference and publishes the batch.
// A source that cannot be fetched fails the run and nothing is published.
// Stores that fail to build or validate are logged and left out of the batch.
func updateMarts(ctx context.Context,
	log *log.Logger,
	publisher batchPublisher,
	sources []martSource,
	reference time.Time) (*mart.Batch, error) {
	start := time.Now()
	fetched := make([][]rawMart, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			raws, err := source.fetch(gctx, reference)
			if err != nil {
				return err
			}
			log.Printf("Retrieved %d %s stores", len(raws), source.martType())
			fetched[i] = raws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var marts []*mart.Mart
	skipped := 0
	for _, raws := range fetched {
		for _, raw := range raws {
			m, err := buildMart(raw, reference)
			if err == nil {
				err = m.Validate()
			}
			if err != nil {
				log.Printf("Skipping %s store %q, error: %v", raw.martType, raw.martName, err)
				skipped++
				continue
			}
			marts = append(marts, m)
		}
	}
	if len(marts) == 0 {
		return nil, fmt.Errorf("no stores resolved from %d sources, %d skipped", len(sources), skipped)
	}

	batch := mart.NewBatch(reference.In(holiday.KST), marts)
	err := publisher.publish(batch)
	if err != nil {
		return nil, err
	}
	log.Printf("Resolved %d stores, skipped %d, in batch %s in %v", len(marts), skipped, batch.RunId,
		time.Since(start))
	return batch, nil
}

// ListMarts displays every Mart of martTypes in the database, or all Marts when martTypes is empty
func ListMarts(db *sqlx.DB, martTypes []string) error {
	fmt.Println("Loaded Marts:")
	if len(martTypes) > 0 {
		marts, err := mart.GetMartsByType(db, martTypes)
		if err != nil {
			return err
		}
		for _, m := range marts {
			fmt.Println(m)
		}
		return nil
	}
	marts, err := mart.GetAllMarts(db)
	if err != nil {
		return err
	}
	for _, m := range marts {
		fmt.Println(m)
	}
	return nil
}

// ListClosedMarts displays every Mart recorded as closed on day
func ListClosedMarts(db *sqlx.DB, day time.Time) error {
	fmt.Printf("Marts closed on %s:\n", day.Format("2006-01-02"))
	marts, err := mart.GetMartsClosedOn(db, day)
	if err != nil {
		return err
	}
	for _, m := range marts {
		fmt.Println(m)
	}
	return nil
}

// ResolveHolidayText parses a holiday description and displays the candidate holidays and resolution as of reference
func ResolveHolidayText(text string, reference time.Time) error {
	rule, err := holiday.Parse(text)
	if err != nil {
		return err
	}
	candidates, err := holiday.CandidateHolidays(rule, reference)
	if err != nil {
		return err
	}
	resolution, err := holiday.Resolve(rule, reference)
	if err != nil {
		return err
	}
	fmt.Printf("Rule: %s\n", rule)
	fmt.Println("Candidate holidays:")
	for _, c := range candidates {
		fmt.Printf("  %s %s\n", c.Format("2006-01-02"), c.Weekday())
	}
	fmt.Printf("As of %s: %s\n", reference.In(holiday.KST).Format("2006-01-02"), resolution)
	return nil
}
