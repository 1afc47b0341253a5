package martmanager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/martcast/martcast/business/openhours"
	"github.com/martcast/martcast/foundation/httpclient"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const costcoType = "costco"

// costcoNamePrefix is prepended to every warehouse display name
const costcoNamePrefix = "코스트코 "

// DefaultCostcoUrl is the store finder endpoint of the costco korea site
const DefaultCostcoUrl = "https://www.costco.co.kr/store-finder/search?q="

var errStoreContent = errors.New("store content missing expected elements")

// costcoSource lists costco warehouses, each describing its hours and holidays in an html fragment
type costcoSource struct {
	url string
}

type costcoResponse struct {
	Data []costcoWarehouse `json:"data"`
}

type costcoWarehouse struct {
	DisplayName  string    `json:"displayName"`
	Longitude    flexFloat `json:"longitude"`
	Latitude     flexFloat `json:"latitude"`
	StoreContent string    `json:"storeContent"`
}

func (c *costcoSource) martType() string {
	return costcoType
}

func (c *costcoSource) fetch(ctx context.Context, _ time.Time) ([]rawMart, error) {
	var response costcoResponse
	err := httpclient.GetJSON(ctx, c.url, &response)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve costco warehouses, error: %w", err)
	}

	results := make([]rawMart, 0, len(response.Data))
	for _, warehouse := range response.Data {
		results = append(results, warehouse.rawMart())
	}
	return results, nil
}

// rawMart reads the warehouse fields, a warehouse with unreadable store content is returned with readErr set
func (w *costcoWarehouse) rawMart() rawMart {
	raw := rawMart{
		martType:  costcoType,
		martName:  costcoNamePrefix + w.DisplayName,
		longitude: float64(w.Longitude),
		latitude:  float64(w.Latitude),
	}
	hoursText, holidayText, err := parseStoreContent(w.StoreContent)
	if err != nil {
		raw.readErr = fmt.Errorf("unable to read store content of %s, error: %w", raw.martName, err)
		return raw
	}
	raw.holidayText = holidayText
	raw.openText, raw.closeText, err = openhours.SplitRange(hoursText)
	if err != nil {
		raw.readErr = fmt.Errorf("unable to read opening hours of %s, error: %w", raw.martName, err)
	}
	return raw
}

// parseStoreContent extracts the opening hours, found in the first <font> of the first paragraph,
// and the holiday description, found in the first <span> of the last paragraph
func parseStoreContent(storeContent string) (hoursText string, holidayText string, err error) {
	doc, err := html.Parse(strings.NewReader(storeContent))
	if err != nil {
		return "", "", err
	}

	paragraphs := findAll(doc, atom.P)
	if len(paragraphs) == 0 {
		return "", "", fmt.Errorf("%w: no paragraphs", errStoreContent)
	}

	hours := findFirst(paragraphs[0], atom.Font)
	if hours == nil {
		return "", "", fmt.Errorf("%w: no opening hours", errStoreContent)
	}
	holidays := findFirst(paragraphs[len(paragraphs)-1], atom.Span)
	if holidays == nil {
		return "", "", fmt.Errorf("%w: no holiday description", errStoreContent)
	}
	return strings.TrimSpace(textOf(hours)), strings.TrimSpace(textOf(holidays)), nil
}

// findAll returns every element below node with tag a, in document order
func findAll(node *html.Node, a atom.Atom) []*html.Node {
	var results []*html.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == a {
			results = append(results, child)
		}
		results = append(results, findAll(child, a)...)
	}
	return results
}

// findFirst returns the first element below node with tag a, or nil
func findFirst(node *html.Node, a atom.Atom) *html.Node {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == a {
			return child
		}
		if found := findFirst(child, a); found != nil {
			return found
		}
	}
	return nil
}

// textOf concatenates all text below node
func textOf(node *html.Node) string {
	if node.Type == html.TextNode {
		return node.Data
	}
	var sb strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(textOf(child))
	}
	return sb.String()
}
