// Package model defines the records flowing through the game linkage pipeline.
package model

// Text is a text field carried through from the curated source table.
type Text string

// NotAvailable is written for source text columns that the curated table does
// not have at all. An empty cell in a present column stays empty.
const NotAvailable Text = "N/A"

// SourceRecord is one row of the cleaned curated table. Game is the join key.
type SourceRecord struct {
	Game        string
	ReleaseYear Text
	Developer   Text
	Publisher   Text
	Rating      Text
	Review      Text
}

// SalesRecord is one row of the sales dataset, in millions of units.
type SalesRecord struct {
	Name        string
	NASales     Measure
	EUSales     Measure
	JPSales     Measure
	OtherSales  Measure
	GlobalSales Measure
}

// RatingsRecord is one row of the cleaned ratings dataset.
type RatingsRecord struct {
	Name             string
	RawRating        Measure
	MetacriticRating Measure
}

// CombinedRecord is one output row: the curated fields plus whatever the sales
// and ratings matches contributed. A match contributes all of its fields or
// none of them.
type CombinedRecord struct {
	Name             string  `csv:"Name" json:"name"`
	ReleaseYear      Text    `csv:"Release Year" json:"release_year"`
	Developer        Text    `csv:"Developer" json:"developer"`
	Publisher        Text    `csv:"Publisher" json:"publisher"`
	WCDRating        Text    `csv:"WCD Rating" json:"wcd_rating"`
	WCDReview        Text    `csv:"WCD Review" json:"wcd_review"`
	RAWGRating       Measure `csv:"RAWG Rating" json:"rawg_rating"`
	MetacriticRating Measure `csv:"Metacritic Rating" json:"metacritic_rating"`
	NASales          Measure `csv:"North American Sales" json:"na_sales"`
	EUSales          Measure `csv:"European Sales" json:"eu_sales"`
	JPSales          Measure `csv:"Japanese Sales" json:"jp_sales"`
	OtherSales       Measure `csv:"Other Sales" json:"other_sales"`
	GlobalSales      Measure `csv:"Global Sales" json:"global_sales"`
}

// CombinedColumns is the output header, in order.
var CombinedColumns = []string{
	"Name",
	"Release Year",
	"Developer",
	"Publisher",
	"WCD Rating",
	"WCD Review",
	"RAWG Rating",
	"Metacritic Rating",
	"North American Sales",
	"European Sales",
	"Japanese Sales",
	"Other Sales",
	"Global Sales",
}

// FromSource starts a CombinedRecord from the curated fields with no matches.
func FromSource(src SourceRecord) CombinedRecord {
	return CombinedRecord{
		Name:        src.Game,
		ReleaseYear: src.ReleaseYear,
		Developer:   src.Developer,
		Publisher:   src.Publisher,
		WCDRating:   src.Rating,
		WCDReview:   src.Review,
	}
}

// WithSales copies every sales field from s.
func (c CombinedRecord) WithSales(s SalesRecord) CombinedRecord {
	c.NASales = s.NASales
	c.EUSales = s.EUSales
	c.JPSales = s.JPSales
	c.OtherSales = s.OtherSales
	c.GlobalSales = s.GlobalSales
	return c
}

// WithRatings copies every ratings field from r.
func (c CombinedRecord) WithRatings(r RatingsRecord) CombinedRecord {
	c.RAWGRating = r.RawRating
	c.MetacriticRating = r.MetacriticRating
	return c
}

// HasSales reports whether any sales field is present.
func (c CombinedRecord) HasSales() bool {
	return c.NASales.Valid || c.EUSales.Valid || c.JPSales.Valid || c.OtherSales.Valid || c.GlobalSales.Valid
}

// HasRatings reports whether any ratings field is present.
func (c CombinedRecord) HasRatings() bool {
	return c.RAWGRating.Valid || c.MetacriticRating.Valid
}
