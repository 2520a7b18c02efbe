package model

// AvailableSkills is the fixed skill taxonomy used on Superteam Earn.
var AvailableSkills = []string{
	"Design",
	"Development",
	"Content",
	"Marketing",
	"Community",
	"BD",
	"Operations",
	"Product",
	"Legal",
	"Finance",
	"Other",
}

// KnownSkill reports whether s is part of the Earn skill taxonomy.
func KnownSkill(s string) bool {
	for _, k := range AvailableSkills {
		if k == s {
			return true
		}
	}
	return false
}

// Preferences is a user's saved notification filter. A record is only created
// by an explicit save at the end of the setup flow, and never deleted;
// switching notifications off is expressed through Active.
type Preferences struct {
	TelegramID   int64
	MinUSDValue  float64
	MaxUSDValue  *float64 // nil means no upper limit
	ListingTypes ListingType
	Skills       []string
	Geography    *string // nil means the user accepts global and all regional listings
	Active       bool
}

// NewPreferences returns a record with the documented defaults.
func NewPreferences(tgID int64) *Preferences {
	return &Preferences{
		TelegramID:   tgID,
		MinUSDValue:  0,
		MaxUSDValue:  nil,
		ListingTypes: ListingTypeAll,
		Skills:       []string{},
		Geography:    nil,
		Active:       true,
	}
}

// Clone returns a deep copy so stores can hand out records without aliasing.
func (p *Preferences) Clone() *Preferences {
	cp := *p
	if p.MaxUSDValue != nil {
		v := *p.MaxUSDValue
		cp.MaxUSDValue = &v
	}
	if p.Geography != nil {
		g := *p.Geography
		cp.Geography = &g
	}
	cp.Skills = append([]string(nil), p.Skills...)
	return &cp
}

// PreferencesPatch carries partial updates for a merge-on-set. Nil pointer
// fields are left untouched; MaxUSDSet and GeographySet distinguish "set to
// unbounded/global" from "not part of this patch".
type PreferencesPatch struct {
	MinUSDValue  *float64
	MaxUSDValue  *float64
	MaxUSDSet    bool
	ListingTypes *ListingType
	Skills       *[]string
	Geography    *string
	GeographySet bool
	Active       *bool
}

// Apply merges the patch onto prefs in place.
func (patch PreferencesPatch) Apply(prefs *Preferences) {
	if patch.MinUSDValue != nil {
		prefs.MinUSDValue = *patch.MinUSDValue
	}
	if patch.MaxUSDSet {
		prefs.MaxUSDValue = patch.MaxUSDValue
	}
	if patch.ListingTypes != nil {
		prefs.ListingTypes = *patch.ListingTypes
	}
	if patch.Skills != nil {
		prefs.Skills = append([]string(nil), (*patch.Skills)...)
	}
	if patch.GeographySet {
		prefs.Geography = patch.Geography
	}
	if patch.Active != nil {
		prefs.Active = *patch.Active
	}
}

// Matches reports whether a listing passes every filter in this record.
// It is a pure predicate: the matching engine is just this method applied
// across all stored records.
func (p *Preferences) Matches(l *Listing) bool {
	if !p.Active {
		return false
	}
	if l.USDValue < p.MinUSDValue {
		return false
	}
	if p.MaxUSDValue != nil && l.USDValue > *p.MaxUSDValue {
		return false
	}
	if p.ListingTypes != ListingTypeAll && p.ListingTypes != l.Type {
		return false
	}
	if len(p.Skills) > 0 && !skillsIntersect(p.Skills, l.Skills) {
		return false
	}
	if l.Geography != nil && p.Geography != nil && *p.Geography != *l.Geography {
		return false
	}
	return true
}

func skillsIntersect(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}
