package martstatus

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/martcast/martcast/business/data/mart"
	"google.golang.org/protobuf/types/known/structpb"
)

// martWrapper holds mart.Mart and the protobuf struct built from it
type martWrapper struct {
	mart       *mart.Mart
	martProtoc *structpb.Struct
}

// makeMartWrapper builds martWrapper from mart.Mart
func makeMartWrapper(m *mart.Mart) (*martWrapper, error) {
	var nextHoliday interface{}
	if m.NextHoliday != nil {
		nextHoliday = m.NextHoliday.Format("2006-01-02")
	}
	martProtoc, err := structpb.NewStruct(map[string]interface{}{
		"base_date":    m.BaseDate.Format(time.RFC3339),
		"mart_type":    m.MartType,
		"mart_name":    m.MartName,
		"longitude":    m.Longitude,
		"latitude":     m.Latitude,
		"start_time":   m.StartTime.Format(time.RFC3339),
		"end_time":     m.EndTime.Format(time.RFC3339),
		"next_holiday": nextHoliday,
		"is_holiday":   m.IsHoliday,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to build protobuf struct for %s, error: %w", m.MartName, err)
	}
	return &martWrapper{
		mart:       m,
		martProtoc: martProtoc,
	}, nil
}

// martCollection contains the latest martWrapper of each mart name and provides thread safe access to them
type martCollection struct {
	mu       sync.Mutex
	martsMap map[string]*martWrapper
	marts    []*martWrapper
}

// makeMartCollection martCollection factory
func makeMartCollection() *martCollection {
	return &martCollection{
		martsMap: make(map[string]*martWrapper),
		marts:    make([]*martWrapper, 0),
	}
}

// addMart stores newMart, discards it if martCollection already contains the same mart resolved on a later BaseDate
func (c *martCollection) addMart(newMart *martWrapper) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.put(newMart) {
		return false
	}
	c.rebuildList()
	return true
}

// addBatch stores every Mart of batch, returning how many replaced or added a record
func (c *martCollection) addBatch(batch *mart.Batch) (added int, err error) {
	wrappers := make([]*martWrapper, 0, len(batch.Marts))
	for _, m := range batch.Marts {
		wrapper, err := makeMartWrapper(m)
		if err != nil {
			return 0, err
		}
		wrappers = append(wrappers, wrapper)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, wrapper := range wrappers {
		if c.put(wrapper) {
			added++
		}
	}
	c.rebuildList()
	return added, nil
}

// put stores newMart in martsMap unless a later record is present. Caller must hold mu
func (c *martCollection) put(newMart *martWrapper) bool {
	if existing, present := c.martsMap[newMart.mart.MartName]; present {
		if existing.mart.BaseDate.After(newMart.mart.BaseDate) {
			return false
		}
	}
	c.martsMap[newMart.mart.MartName] = newMart
	return true
}

// rebuildList replaces marts with the contents of martsMap ordered by name. Caller must hold mu
func (c *martCollection) rebuildList() {
	newMarts := make([]*martWrapper, 0, len(c.martsMap))
	for _, m := range c.martsMap {
		newMarts = append(newMarts, m)
	}
	sort.Slice(newMarts, func(i, j int) bool {
		return newMarts[i].mart.MartName < newMarts[j].mart.MartName
	})
	c.marts = newMarts
}

// martList returns the martWrappers currently stored, restricted to martTypes when any are given
func (c *martCollection) martList(martTypes ...string) []*martWrapper {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(martTypes) == 0 {
		return c.marts
	}
	results := make([]*martWrapper, 0)
	for _, m := range c.marts {
		for _, martType := range martTypes {
			if m.mart.MartType == martType {
				results = append(results, m)
				break
			}
		}
	}
	return results
}

// getMart returns the martWrapper stored for martName
func (c *martCollection) getMart(martName string) (*martWrapper, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, present := c.martsMap[martName]
	return m, present
}

// expireMarts removes all martWrappers resolved more than expireAfterSeconds before at.
// returns the number of martWrappers that have been removed and how many are currently stored.
func (c *martCollection) expireMarts(at time.Time, expireAfterSeconds int) (removed int, currentSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expireBefore := at.Add(-time.Duration(expireAfterSeconds) * time.Second)
	newMap := make(map[string]*martWrapper)
	newMarts := make([]*martWrapper, 0)
	for _, m := range c.marts {
		if m.mart.BaseDate.After(expireBefore) {
			newMarts = append(newMarts, m)
			newMap[m.mart.MartName] = m
		}
	}
	previousSize := len(c.marts)
	c.martsMap = newMap
	c.marts = newMarts
	currentSize = len(c.marts)
	return previousSize - currentSize, currentSize
}
