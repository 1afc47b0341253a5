package martmanager

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/martcast/martcast/business/holiday"
	"github.com/martcast/martcast/foundation/httpclient"
)

const emartType = "emart"

// DefaultEmartUrl is the branch search endpoint of the emart store site
const DefaultEmartUrl = "https://store.emart.com/branch/searchList.do"

// emartSource lists emart branches with their holiday dates for the month of the reference
type emartSource struct {
	url string
}

type emartResponse struct {
	DataList []emartBranch `json:"dataList"`
}

// emartBranch is one branch as returned by the branch search. MAP_Y holds longitude and MAP_X latitude.
type emartBranch struct {
	Name              string    `json:"NAME"`
	MapY              flexFloat `json:"MAP_Y"`
	MapX              flexFloat `json:"MAP_X"`
	OpenShoppingTime  string    `json:"OPEN_SHOPPING_TIME"`
	CloseShoppingTime string    `json:"CLOSE_SHOPPING_TIME"`
	HolidayDay1       string    `json:"HOLIDAY_DAY1_YYYYMMDD"`
	HolidayDay2       string    `json:"HOLIDAY_DAY2_YYYYMMDD"`
	HolidayDay3       string    `json:"HOLIDAY_DAY3_YYYYMMDD"`
}

func (e *emartSource) martType() string {
	return emartType
}

// emartSearchForm builds the branch search request for every branch in the month of reference
func emartSearchForm(reference time.Time) url.Values {
	local := reference.In(holiday.KST)
	return url.Values{
		"srchMode":     {"jijum"},
		"year":         {local.Format("2006")},
		"month":        {local.Format("01")},
		"jMode":        {"true"},
		"strConfirmYN": {"N"},
		"searchType":   {"EM"},
		"keyword":      {""},
	}
}

func (e *emartSource) fetch(ctx context.Context, reference time.Time) ([]rawMart, error) {
	var response emartResponse
	err := httpclient.PostFormJSON(ctx, e.url, emartSearchForm(reference), &response)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve emart branches, error: %w", err)
	}

	results := make([]rawMart, 0, len(response.DataList))
	for _, branch := range response.DataList {
		results = append(results, rawMart{
			martType:      emartType,
			martName:      branch.Name,
			longitude:     float64(branch.MapY),
			latitude:      float64(branch.MapX),
			openText:      branch.OpenShoppingTime,
			closeText:     branch.CloseShoppingTime,
			holidayDates:  []string{branch.HolidayDay1, branch.HolidayDay2, branch.HolidayDay3},
			explicitDates: true,
		})
	}
	return results, nil
}
