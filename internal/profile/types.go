// 包 profile：上游名片资料 API 的客户端与边界归一化
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// 文档注释：宽松文本字段
// 背景：上游资料来自表格导出，同一字段可能是字符串、数字或布尔（如电话号、坐标）；在边界统一转为字符串。
// 约束：null 视为空串；对象与数组不是合法文本，按解析错误处理。
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
		return nil
	case '{', '[':
		return fmt.Errorf("profile: text field cannot be %s", kindOf(b[0]))
	}
	// 数字与布尔保留原始字面量
	*t = Text(b)
	return nil
}

func (t Text) String() string { return string(t) }

func kindOf(c byte) string {
	if c == '{' {
		return "an object"
	}
	return "an array"
}

// 文档注释：单值或多值字段
// 背景：awards/badges/paymentMethods 等字段上游可能给出单个字符串或字符串数组；在此一次性归一为列表，渲染侧不再做类型判断。
// 约束：空白元素被丢弃；全部为空时结果为 nil。
type Many []string

func (m *Many) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []Text
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		var out Many
		for _, it := range items {
			if it != "" {
				out = append(out, string(it))
			}
		}
		*m = out
		return nil
	}
	var t Text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	if t == "" {
		*m = nil
		return nil
	}
	*m = Many{string(t)}
	return nil
}

// Record：上游返回的原始资料记录，字段名与上游表头一致
type Record struct {
	CompanyName      Text `json:"companyName"`
	Category         Text `json:"category"`
	Description      Text `json:"description"`
	LicenseStatus    Text `json:"licenseStatus"`
	YoutubeID        Text `json:"youtubeId"`
	HealthStatus     Text `json:"healthStatus"`
	SecurityProvider Text `json:"securityProvider"`
	Awards           Many `json:"awards"`
	Badges           Many `json:"badges"`
	PaymentMethods   Many `json:"paymentMethods"`
	SocialFacebook   Text `json:"socialFacebook"`
	SocialX          Text `json:"socialX"`
	SocialInstagram  Text `json:"socialInstagram"`
	SocialLinkedin   Text `json:"socialLinkedin"`
	SocialTiktok     Text `json:"socialTiktok"`
	SocialWhatsapp   Text `json:"socialWhatsapp"`
	LocationAddress  Text `json:"locationAddress"`
	LocationLat      Text `json:"locationLat"`
	LocationLng      Text `json:"locationLng"`
	ContactEmail     Text `json:"contactEmail"`
	ContactPhone     Text `json:"contactPhone"`
	Website          Text `json:"website"`
	OpenHours        Text `json:"openHours"`
	Attributions     Text `json:"attributions"`
}

// LinkableItem：可带链接的文本，源格式为 [label](url)
type LinkableItem struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	Label    string `json:"label"`
	URL      string `json:"url"`
}

type PaymentMethod struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type Location struct {
	Address string `json:"address"`
	Lat     string `json:"lat,omitempty"`
	Lng     string `json:"lng,omitempty"`
	MapsURL string `json:"maps_url"`
}

type Contact struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Website   string `json:"website,omitempty"`
	OpenHours string `json:"open_hours,omitempty"`
}

// 文档注释：归一化后的名片
// 背景：对外序列化模型，所有“可选/单多值混合”的字段已在边界处理完毕；空分组以空值或省略表达。
type Card struct {
	ID           string          `json:"id"`
	CompanyName  string          `json:"company_name"`
	Category     string          `json:"category,omitempty"`
	Description  string          `json:"description,omitempty"`
	Verified     bool            `json:"verified"`
	Videos       []string        `json:"videos,omitempty"`
	Health       *LinkableItem   `json:"health,omitempty"`
	Security     *LinkableItem   `json:"security,omitempty"`
	Awards       []LinkableItem  `json:"awards,omitempty"`
	Badges       []LinkableItem  `json:"badges,omitempty"`
	Socials      []SocialLink    `json:"socials,omitempty"`
	Payments     []PaymentMethod `json:"payments,omitempty"`
	Location     *Location       `json:"location,omitempty"`
	Contact      Contact         `json:"contact"`
	Attributions string          `json:"attributions,omitempty"`
}
