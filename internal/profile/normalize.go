package profile

import (
	"net/url"
	"regexp"
	"strings"
)

var linkPattern = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)

// ParseLinkable：解析 [label](url)；不含该格式时整段作为文本，URL 为空
func ParseLinkable(s string) LinkableItem {
	if m := linkPattern.FindStringSubmatch(s); m != nil && m[1] != "" && m[2] != "" {
		return LinkableItem{Text: strings.TrimSpace(m[1]), URL: strings.TrimSpace(m[2])}
	}
	return LinkableItem{Text: strings.TrimSpace(s)}
}

var paymentNames = map[string]string{
	"mpesa":   "M-Pesa",
	"atmoney": "Airtel Money",
	"cash":    "Cash",
	"card":    "Card",
	"bitcoin": "Bitcoin",
	"other":   "Other",
}

// Payment：支付方式键转为展示名与图标名；未知键原样展示
func Payment(raw string) PaymentMethod {
	key := strings.ToLower(strings.TrimSpace(raw))
	p := PaymentMethod{Key: key, Name: key, Icon: "wallet"}
	if n, ok := paymentNames[key]; ok {
		p.Name = n
	}
	switch key {
	case "mpesa", "atmoney":
		p.Icon = "smartphone"
	case "card":
		p.Icon = "credit-card"
	case "bitcoin":
		p.Icon = "bitcoin"
	}
	return p
}

var whatsappStrip = strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "", "-", "", "(", "", ")", "", "+", "")

// SocialURL：按平台把账号拼成主页链接；未知平台返回 "#"
func SocialURL(platform, handle string) string {
	switch platform {
	case "Facebook":
		return "https://facebook.com/" + strings.Replace(handle, "/", "", 1)
	case "X":
		return "https://x.com/" + strings.Replace(handle, "@", "", 1)
	case "Instagram":
		return "https://instagram.com/" + strings.Replace(handle, "@", "", 1)
	case "Linkedin":
		return "https://linkedin.com/company/" + strings.Replace(handle, "/", "", 1)
	case "Tiktok":
		return "https://tiktok.com/@" + strings.Replace(handle, "@", "", 1)
	case "Whatsapp":
		return "https://wa.me/" + whatsappStrip.Replace(handle)
	}
	return "#"
}

// VideoIDs：分号分隔的视频 ID，倒序使最新的排在最前
func VideoIDs(s string) []string {
	var out []string
	parts := strings.Split(s, ";")
	for i := len(parts) - 1; i >= 0; i-- {
		if id := strings.TrimSpace(parts[i]); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// MapsURL：有坐标时按坐标检索，否则按地址检索
func MapsURL(lat, lng, address string) string {
	q := address
	if lat != "" && lng != "" {
		q = lat + "," + lng
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(q)
}

// 文档注释：原始记录归一为名片
// 背景：一次性完成单多值展开、链接解析、社交链接与支付方式映射，渲染侧只消费结果。
// 约束：社交链接顺序固定（Whatsapp、Facebook、Tiktok、Instagram、X、Linkedin），与卡片展示顺序一致；无地址时不输出位置。
func Normalize(id string, r Record) *Card {
	c := &Card{
		ID:           id,
		CompanyName:  r.CompanyName.String(),
		Category:     r.Category.String(),
		Description:  r.Description.String(),
		Verified:     r.LicenseStatus == "verified",
		Videos:       VideoIDs(r.YoutubeID.String()),
		Attributions: r.Attributions.String(),
		Contact: Contact{
			Email:     r.ContactEmail.String(),
			Phone:     r.ContactPhone.String(),
			Website:   r.Website.String(),
			OpenHours: r.OpenHours.String(),
		},
	}
	if r.HealthStatus != "" {
		it := ParseLinkable(r.HealthStatus.String())
		c.Health = &it
	}
	if r.SecurityProvider != "" {
		it := ParseLinkable(r.SecurityProvider.String())
		c.Security = &it
	}
	for _, a := range r.Awards {
		c.Awards = append(c.Awards, ParseLinkable(a))
	}
	for _, b := range r.Badges {
		c.Badges = append(c.Badges, ParseLinkable(b))
	}
	for _, p := range r.PaymentMethods {
		c.Payments = append(c.Payments, Payment(p))
	}
	socials := []struct {
		platform string
		handle   Text
	}{
		{"Whatsapp", r.SocialWhatsapp},
		{"Facebook", r.SocialFacebook},
		{"Tiktok", r.SocialTiktok},
		{"Instagram", r.SocialInstagram},
		{"X", r.SocialX},
		{"Linkedin", r.SocialLinkedin},
	}
	for _, s := range socials {
		if s.handle == "" {
			continue
		}
		h := s.handle.String()
		label := h
		if s.platform == "Tiktok" {
			label = "@" + strings.Replace(h, "@", "", 1)
		}
		c.Socials = append(c.Socials, SocialLink{Platform: s.platform, Label: label, URL: SocialURL(s.platform, h)})
	}
	if r.LocationAddress != "" {
		c.Location = &Location{
			Address: r.LocationAddress.String(),
			Lat:     r.LocationLat.String(),
			Lng:     r.LocationLng.String(),
			MapsURL: MapsURL(r.LocationLat.String(), r.LocationLng.String(), r.LocationAddress.String()),
		}
	}
	return c
}
