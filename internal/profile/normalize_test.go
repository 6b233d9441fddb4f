package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManyAcceptsSingleOrList(t *testing.T) {
	cases := map[string]Many{
		`"mpesa"`:             {"mpesa"},
		`["mpesa", " card "]`: {"mpesa", "card"},
		`[]`:                  nil,
		`null`:                nil,
		`""`:                  nil,
		`["", null, "cash"]`:  {"cash"},
		`254757759828`:        {"254757759828"},
	}
	for in, want := range cases {
		var got struct {
			M Many `json:"m"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"m":`+in+`}`), &got), in)
		assert.Equal(t, want, got.M, in)
	}

	var bad struct {
		M Many `json:"m"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"m":{"a":1}}`), &bad))
}

func TestTextAcceptsScalars(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"socialWhatsapp": 254757759828, "locationLat": -1.2921, "companyName": "  Acme ", "website": null}`), &r))

	assert.Equal(t, Text("254757759828"), r.SocialWhatsapp)
	assert.Equal(t, Text("-1.2921"), r.LocationLat)
	assert.Equal(t, Text("Acme"), r.CompanyName)
	assert.Equal(t, Text(""), r.Website)
}

func TestParseLinkable(t *testing.T) {
	assert.Equal(t, LinkableItem{Text: "KEBS Certified", URL: "https://kebs.org"}, ParseLinkable("[ KEBS Certified ]( https://kebs.org )"))
	assert.Equal(t, LinkableItem{Text: "Excellent"}, ParseLinkable(" Excellent "))
	assert.Equal(t, LinkableItem{Text: "[]()"}, ParseLinkable("[]()"))
}

func TestPayment(t *testing.T) {
	assert.Equal(t, PaymentMethod{Key: "mpesa", Name: "M-Pesa", Icon: "smartphone"}, Payment(" MPesa "))
	assert.Equal(t, PaymentMethod{Key: "atmoney", Name: "Airtel Money", Icon: "smartphone"}, Payment("atmoney"))
	assert.Equal(t, PaymentMethod{Key: "card", Name: "Card", Icon: "credit-card"}, Payment("card"))
	assert.Equal(t, PaymentMethod{Key: "bitcoin", Name: "Bitcoin", Icon: "bitcoin"}, Payment("bitcoin"))
	assert.Equal(t, PaymentMethod{Key: "barter", Name: "barter", Icon: "wallet"}, Payment("barter"))
}

func TestSocialURL(t *testing.T) {
	assert.Equal(t, "https://facebook.com/wovenafrica", SocialURL("Facebook", "/wovenafrica"))
	assert.Equal(t, "https://x.com/woven", SocialURL("X", "@woven"))
	assert.Equal(t, "https://instagram.com/woven", SocialURL("Instagram", "@woven"))
	assert.Equal(t, "https://linkedin.com/company/woven", SocialURL("Linkedin", "woven"))
	assert.Equal(t, "https://tiktok.com/@woven", SocialURL("Tiktok", "@woven"))
	assert.Equal(t, "https://wa.me/254757759828", SocialURL("Whatsapp", "+254 (757) 759-828"))
	assert.Equal(t, "#", SocialURL("Myspace", "x"))
}

func TestVideoIDsNewestFirst(t *testing.T) {
	assert.Equal(t, []string{"c", "b", "a"}, VideoIDs("a; b ;c"))
	assert.Nil(t, VideoIDs(""))
	assert.Equal(t, []string{"b", "a"}, VideoIDs("a;;b;"))
}

func TestNormalize(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{
		"companyName": "Woven Africa",
		"category": "Tech",
		"licenseStatus": "verified",
		"youtubeId": "old;new",
		"healthStatus": "[Excellent](https://health.example)",
		"securityProvider": "G4S",
		"awards": "[Best SME](https://awards.example)",
		"badges": ["Eco", "[Women Led](https://wl.example)"],
		"paymentMethods": ["mpesa", "cash"],
		"socialX": "@woven",
		"socialTiktok": "woven",
		"socialWhatsapp": 254757759828,
		"locationAddress": "Westlands, Nairobi",
		"locationLat": -1.26,
		"locationLng": 36.8,
		"contactEmail": "hello@woven.africa"
	}`), &r))

	c := Normalize("abc", r)

	assert.Equal(t, "abc", c.ID)
	assert.Equal(t, "Woven Africa", c.CompanyName)
	assert.True(t, c.Verified)
	assert.Equal(t, []string{"new", "old"}, c.Videos)
	assert.Equal(t, &LinkableItem{Text: "Excellent", URL: "https://health.example"}, c.Health)
	assert.Equal(t, &LinkableItem{Text: "G4S"}, c.Security)
	assert.Equal(t, []LinkableItem{{Text: "Best SME", URL: "https://awards.example"}}, c.Awards)
	assert.Equal(t, []LinkableItem{{Text: "Eco"}, {Text: "Women Led", URL: "https://wl.example"}}, c.Badges)
	assert.Equal(t, []PaymentMethod{
		{Key: "mpesa", Name: "M-Pesa", Icon: "smartphone"},
		{Key: "cash", Name: "Cash", Icon: "wallet"},
	}, c.Payments)
	assert.Equal(t, []SocialLink{
		{Platform: "Whatsapp", Label: "254757759828", URL: "https://wa.me/254757759828"},
		{Platform: "Tiktok", Label: "@woven", URL: "https://tiktok.com/@woven"},
		{Platform: "X", Label: "@woven", URL: "https://x.com/woven"},
	}, c.Socials)
	require.NotNil(t, c.Location)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=-1.26%2C36.8", c.Location.MapsURL)
	assert.Equal(t, "hello@woven.africa", c.Contact.Email)
}

func TestNormalizeSparseRecord(t *testing.T) {
	c := Normalize("x", Record{CompanyName: "Solo", LicenseStatus: "pending"})

	assert.False(t, c.Verified)
	assert.Nil(t, c.Health)
	assert.Nil(t, c.Security)
	assert.Nil(t, c.Location)
	assert.Empty(t, c.Socials)
	assert.Empty(t, c.Payments)
	assert.Empty(t, c.Videos)
}
