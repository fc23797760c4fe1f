package intent

// SiteKeyword maps a monument substring to a catalog site id.
type SiteKeyword struct {
	Keyword string
	SiteID  string
}

// DefaultSiteKeywords is checked top to bottom and the first hit wins, so
// "qutub and taj" resolves to Qutub Minar. Do not reorder.
var DefaultSiteKeywords = []SiteKeyword{
	{Keyword: "qutub", SiteID: "qutub"},
	{Keyword: "taj", SiteID: "taj"},
	{Keyword: "hawa", SiteID: "hawa"},
}

const (
	comboPhrase   = "weekend combo"
	comboKeyword  = "combo"
	bookKeyword   = "book"
	unknownSite   = "that site"
	siteListJoint = ", "
)

var (
	timingKeywords  = []string{"time", "timing", "open", "hours"}
	popularKeywords = []string{"popular", "sites"}
	offerKeywords   = []string{"offer", "discount", "deal"}
)
