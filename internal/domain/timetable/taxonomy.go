package timetable

import "strings"

// Category groups subjects for display.
type Category int

const (
	CategoryHumanities Category = iota
	CategoryArtsAndPE
	CategoryLiberalArts
	CategoryMathematics
	CategoryPhysics
	CategoryChemistry
	CategoryLifeScience
	CategoryEarthScience
	CategoryComputerScience
)

var categoryNames = map[Category]string{
	CategoryHumanities:      "인문",
	CategoryArtsAndPE:       "예체능",
	CategoryLiberalArts:     "교양",
	CategoryMathematics:     "수학",
	CategoryPhysics:         "물리학",
	CategoryChemistry:       "화학",
	CategoryLifeScience:     "생명과학",
	CategoryEarthScience:    "지구과학",
	CategoryComputerScience: "정보과학",
}

// DefaultCategory is assigned when no keyword rule matches.
const DefaultCategory = CategoryLiberalArts

type categoryRule struct {
	keywords []string
	category Category
}

// categoryRules are evaluated top to bottom; the first rule with a keyword
// contained in the subject name wins.
var categoryRules = []categoryRule{
	{[]string{"물리", "역학"}, CategoryPhysics},
	{[]string{"화학"}, CategoryChemistry},
	{[]string{"생명", "생물", "생리학", "생태"}, CategoryLifeScience},
	{[]string{"지구", "천문"}, CategoryEarthScience},
	{[]string{"딥러닝", "프로그래밍", "알고리즘"}, CategoryComputerScience},
	{[]string{"적분", "선형", "수학", "기하", "미분", "정수론"}, CategoryMathematics},
	{[]string{"음악", "미술", "체육", "건강"}, CategoryArtsAndPE},
	{[]string{"정치", "영작", "영어", "회화", "고전", "경제", "문학", "중국", "일본", "아시아", "독서", "작문"}, CategoryHumanities},
}

// Classify returns the category for a subject name.
func Classify(name string) Category {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return DefaultCategory
}

// Palette is a block colour pair: Base for the resting state, Active for hover/press.
type Palette struct {
	Base   string `json:"base"`
	Active string `json:"active"`
}

// Color returns the display palette. All science categories share one palette.
func (c Category) Color() Palette {
	switch c {
	case CategoryHumanities:
		return Palette{"#F4B8C4", "#F09AAA"}
	case CategoryArtsAndPE:
		return Palette{"#F9E4BE", "#F6D69C"}
	case CategoryLiberalArts:
		return Palette{"#D8E4F3", "#BCD1EA"}
	case CategoryMathematics:
		return Palette{"#C9E8D2", "#AEDCBB"}
	default:
		return Palette{"#D0CBF1", "#BBB3EB"}
	}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Category(" + itoa(int(c)) + ")"
}

// MarshalText renders the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (c *Category) UnmarshalText(text []byte) error {
	for cat, name := range categoryNames {
		if name == string(text) {
			*c = cat
			return nil
		}
	}
	*c = DefaultCategory
	return nil
}
