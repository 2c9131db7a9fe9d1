package view

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"estateBack/internal/models"
)

// PlaceholderImage is shown when a listing carries no image at all.
const PlaceholderImage = "https://53.fs1.hubspotusercontent-na1.net/hub/53/hubfs/Sales_Blog/real-estate-business-compressor.jpg?width=595&height=400&name=real-estate-business-compressor.jpg"

const infoSeparator = " • "

// FromUser builds the card view of a user listing.
func FromUser(l models.UserListing) models.ListingView {
	v := models.ListingView{
		ID:          l.ID,
		Origin:      models.SourceUser,
		DetailPath:  "/listing/" + l.ID,
		Name:        firstNonEmpty(l.Name, "Listing"),
		Description: l.Description,
		Address:     l.Address,
		Price:       userPrice(l),
		Images:      images(l.ImageURLs, "", ""),
		Info:        joinInfo(plural(l.Bedrooms, "bed"), plural(l.Bathrooms, "bath")),
	}
	if l.Type == models.ListingTypeRent {
		v.Tags = append(v.Tags, "For Rent")
	} else if l.Type == models.ListingTypeSale {
		v.Tags = append(v.Tags, "For Sale")
	}
	if l.Offer {
		v.Tags = append(v.Tags, "Offer")
	}
	return v
}

// FromCrawled builds the card view of a crawled listing.
func FromCrawled(c models.CrawledListing) models.ListingView {
	area := c.AreaText
	if area == "" && c.AreaM2 != nil && *c.AreaM2 > 0 {
		area = formatNumber(language.Vietnamese, *c.AreaM2) + " m²"
	}
	v := models.ListingView{
		ID:          c.ID,
		Origin:      models.SourceCrawled,
		DetailPath:  "/crawl/" + c.ID,
		Name:        firstNonEmpty(c.Title, "Listing"),
		Description: c.Brief,
		Address:     c.Address,
		Price:       crawledPrice(c),
		Images:      images(nil, c.Thumbnail, c.Image),
		Info:        joinInfo(area, c.StreetWidth, c.SizeText, c.Direction),
		Tags:        []string{"Crawled"},
	}
	if c.Source != "" {
		v.Tags = []string{"Crawled (" + c.Source + ")"}
	}
	return v
}

func userPrice(l models.UserListing) string {
	price := l.RegularPrice
	if l.Offer && l.DiscountPrice > 0 {
		price = l.DiscountPrice
	}
	s := "$" + formatNumber(language.English, price)
	if l.Type == models.ListingTypeRent {
		s += " / month"
	}
	return s
}

func crawledPrice(c models.CrawledListing) string {
	if strings.TrimSpace(c.PriceText) != "" {
		return c.PriceText
	}
	if c.PriceValue != nil {
		return formatNumber(language.Vietnamese, *c.PriceValue) + " đ"
	}
	return c.Price
}

func images(urls []string, thumbnail, image string) []string {
	var out []string
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, u := range []string{thumbnail, image} {
		if strings.TrimSpace(u) != "" {
			return []string{u}
		}
	}
	return []string{PlaceholderImage}
}

func formatNumber(tag language.Tag, f float64) string {
	p := message.NewPrinter(tag)
	if f == math.Trunc(f) {
		return p.Sprintf("%d", int64(f))
	}
	return p.Sprintf("%.2f", f)
}

func plural(n int, noun string) string {
	if n > 1 {
		return message.NewPrinter(language.English).Sprintf("%d %ss", n, noun)
	}
	return message.NewPrinter(language.English).Sprintf("%d %s", n, noun)
}

func joinInfo(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, infoSeparator)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
