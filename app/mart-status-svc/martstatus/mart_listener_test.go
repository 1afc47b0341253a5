package martstatus

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/martcast/martcast/business/data/mart"
	"github.com/matryer/is"
	"github.com/nats-io/nats.go"
)

func Test_processMartBatchFromMsg(t *testing.T) {
	is := is.New(t)
	day := time.Date(2024, 3, 10, 0, 5, 0, 0, testKST)
	batch := mart.NewBatch(day, []*mart.Mart{
		testMart("costco", "코스트코 양재점", day),
		testMart("emart", "이마트 성수점", day),
	})
	data, err := json.Marshal(batch)
	is.NoErr(err)

	c := makeMartCollection()
	processMartBatchFromMsg(discardLogger(), &nats.Msg{Data: data}, c)
	is.Equal(len(c.martList()), 2)

	received, present := c.getMart("코스트코 양재점")
	is.True(present)
	is.True(received.mart.BaseDate.Equal(day))
	is.True(received.mart.NextHoliday.Equal(time.Date(2024, 3, 17, 0, 0, 0, 0, testKST)))
}

func Test_processMartBatchFromMsgInvalid(t *testing.T) {
	is := is.New(t)
	c := makeMartCollection()
	processMartBatchFromMsg(discardLogger(), &nats.Msg{Data: []byte("not json")}, c)
	is.Equal(len(c.martList()), 0)
}
