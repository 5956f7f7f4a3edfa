// internal/scrapers/mbl/collector.go
package mbl

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ps-vitor/fasteignir-search/internal/domain"
)

const (
	cardSelector     = ".single-realestate"
	cardIDPrefix     = "realestate-result-"
	priceOnOffer     = "Tilboð"
	openHouseLabel   = "Opið hús"
	streetOpenHouse  = "Opið Hús"
	propertySelector = ".realestate-properties strong"
)

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?\d+(\.\d+)?`)

	errMissingID        = errors.New("card has no id")
	errInvalidFloorSize = errors.New("card floor size is not a number")
)

// CardError describes a listing card that was dropped from the results.
type CardError struct {
	Index int
	ID    string
	Err   error
}

func (e CardError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("card %d (%s): %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("card %d: %v", e.Index, e.Err)
}

func (e CardError) Unwrap() error { return e.Err }

// Collector turns results pages into properties. Links in the output are made
// absolute against the configured site.
type Collector struct {
	baseURL string
	origin  string
}

func NewCollector(baseURL string) (*Collector, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("mbl: invalid base url %q", baseURL)
	}
	return &Collector{
		baseURL: strings.TrimRight(baseURL, "/"),
		origin:  u.Scheme + "://" + u.Host,
	}, nil
}

// ParseDocument parses a results page. Empty and truncated bodies are
// rejected here so that a cut-off page never yields a silently short list.
func ParseDocument(body []byte) (*goquery.Document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", domain.ErrMarkup)
	}
	if !bytes.Contains(bytes.ToLower(body), []byte("</html>")) {
		return nil, fmt.Errorf("%w: body is truncated", domain.ErrMarkup)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMarkup, err)
	}
	return doc, nil
}

// Extract returns the properties of every well-formed card, in page order,
// and the cards that had to be dropped.
func (c *Collector) Extract(doc *goquery.Document) ([]domain.Property, []CardError) {
	properties := []domain.Property{}
	var dropped []CardError

	doc.Find(cardSelector).Each(func(i int, card *goquery.Selection) {
		property, err := c.parseCard(card)
		if err != nil {
			id, _ := card.Attr("id")
			dropped = append(dropped, CardError{Index: i, ID: id, Err: err})
			return
		}
		properties = append(properties, property)
	})

	return properties, dropped
}

func (c *Collector) parseCard(card *goquery.Selection) (domain.Property, error) {
	rawID, _ := card.Attr("id")
	id := strings.TrimSpace(strings.TrimPrefix(rawID, cardIDPrefix))
	if id == "" {
		return domain.Property{}, errMissingID
	}

	fields := card.Find(propertySelector)

	floorSize, ok := parseFloorSize(fields.Eq(1).Text())
	if !ok {
		return domain.Property{}, errInvalidFloorSize
	}

	head := card.Find(".realestate-head")
	street := strings.Replace(head.Find("h4").Text(), ",", "", 1)
	street = strings.TrimSpace(strings.ReplaceAll(street, streetOpenHouse, ""))
	postalCode, city := splitPostalCity(head.Find("h5").Text())

	property := domain.Property{
		ID:         id,
		SourceLink: c.baseURL + "/fasteign/" + id,
		StreetName: street,
		PostalCode: postalCode,
		City:       city,
		Price:      parsePrice(fields.Eq(0).Text()),
		FloorSize:  floorSize,
		Bedrooms:   parseBedrooms(fields.Eq(3).Text()),
		Photos:     []string{},
	}

	if key, ok := CategoryFromSource(strings.TrimSpace(fields.Eq(2).Text())); ok {
		property.Category = &key
	}

	profile := card.Find(".profile")
	if src, ok := profile.Find("img").First().Attr("src"); ok && strings.TrimSpace(src) != "" {
		property.Photos = append(property.Photos, c.absolute(strings.TrimSpace(src)))
	}

	if openHouse := profile.Find(".open_house"); openHouse.Length() > 0 {
		text := strings.Replace(openHouse.Text(), openHouseLabel, "", 1)
		property.OpenHouse = strings.Join(strings.Fields(text), " ")
	}

	return property, nil
}

// parsePrice reads "24.900.000 kr." as 24900000. The on-offer label and
// unreadable text both give nil.
func parsePrice(text string) *int64 {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(strings.TrimSuffix(text, "kr."))
	text = strings.ReplaceAll(text, ".", "")
	if text == "" || text == priceOnOffer {
		return nil
	}

	digits := leadingInt.FindString(text)
	if digits == "" {
		return nil
	}
	price, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &price
}

// parseFloorSize reads "85,3 m2" or "85.3 m2".
func parseFloorSize(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(strings.TrimSuffix(text, "m2"))
	text = strings.Replace(text, ",", ".", 1)

	number := leadingFloat.FindString(text)
	if number == "" {
		return 0, false
	}
	size, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}
	return size, true
}

func parseBedrooms(text string) *int {
	digits := leadingInt.FindString(strings.TrimSpace(text))
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

// splitPostalCity splits "101 Reykjavík" into its two parts.
func splitPostalCity(text string) (string, string) {
	parts := strings.Fields(text)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (c *Collector) absolute(src string) string {
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return src
	case strings.HasPrefix(src, "//"):
		return strings.SplitN(c.origin, ":", 2)[0] + ":" + src
	case strings.HasPrefix(src, "/"):
		return c.origin + src
	}
	return c.origin + "/" + src
}
