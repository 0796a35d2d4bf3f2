package filter

import (
	"slices"
	"strings"
)

type Section string

const (
	SectionPersonal    Section = "personal"
	SectionBooking     Section = "booking"
	SectionTags        Section = "tags"
	SectionTransport   Section = "transport"
	SectionHousing     Section = "housing"
	SectionHealth      Section = "health"
	SectionSupervision Section = "supervision"
)

type sectionDef struct {
	id     Section
	labels []string
	keys   []Key
}

var sections = []sectionDef{
	{SectionPersonal, []string{"Personal information", "البيانات الشخصية", "Nationality", "الجنسية", "City", "المدينة", "Gender", "الجنس", "Pilgrim type", "نوع الحاج", "Muhrim status", "حالة الإحرام"},
		[]Key{KeyNationality, KeyCity, KeyGender, KeyPilgrimType, KeyMuhrimStatus}},
	{SectionBooking, []string{"Booking", "الحجز", "Package", "الباقة", "Booking status", "حالة الحجز", "Source", "المصدر", "Import history", "سجل الاستيراد"},
		[]Key{KeyPackage, KeyBookingStatus, KeySource, KeyImportHistory}},
	{SectionTags, []string{"Tags", "الوسوم"},
		[]Key{KeyTag}},
	{SectionTransport, []string{"Transport", "النقل", "Gathering point", "نقطة التجمع", "Destination", "الوجهة", "Time", "الوقت", "Bus", "الحافلة", "Arrival timing", "توقيت الوصول"},
		[]Key{KeyGatheringPointType, KeyGatheringPoint, KeyDestination, KeyGatheringPointTime, KeyBus, KeyDepartureStatus}},
	{SectionHousing, []string{"Housing", "السكن", "Camp", "المخيم"},
		[]Key{KeyCamp}},
	{SectionHealth, []string{"Health status", "الحالة الصحية"},
		[]Key{KeyHealthStatus}},
	{SectionSupervision, []string{"Supervisor", "المشرف"},
		[]Key{KeySupervisor}},
}

// SectionOf returns the accordion section a key is rendered in.
func SectionOf(key Key) (Section, bool) {
	for _, s := range sections {
		if slices.Contains(s.keys, key) {
			return s.id, true
		}
	}

	return "", false
}

// Builder is the editable filter form. It is not safe for concurrent use.
type Builder struct {
	sel      Selection
	expanded map[Section]bool
}

func NewBuilder() *Builder {
	return &Builder{expanded: make(map[Section]bool)}
}

// UpdateField sets key to value; an empty value clears it. Writing a parent
// key always clears its dependent keys.
func (b *Builder) UpdateField(key Key, value string) error {
	if err := b.sel.set(key, value); err != nil {
		return err
	}
	for _, child := range dependents[key] {
		_ = b.sel.set(child, "")
	}

	return nil
}

func (b *Builder) Reset() {
	b.sel = Selection{}
	clear(b.expanded)
}

// Apply returns a copy of the current selection for the list query.
func (b *Builder) Apply() Selection {
	return b.sel.Clone()
}

func (b *Builder) ToggleSection(s Section) {
	b.expanded[s] = !b.expanded[s]
}

func (b *Builder) Expanded(s Section) bool {
	return b.expanded[s]
}

// Search returns the sections whose labels match query and expands them.
// An empty query shows every section and leaves expansion untouched.
func (b *Builder) Search(query string) []Section {
	visible := VisibleSections(query)
	if strings.TrimSpace(query) != "" {
		for _, s := range visible {
			b.expanded[s] = true
		}
	}

	return visible
}

func VisibleSections(query string) []Section {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if q == "" || slices.ContainsFunc(s.labels, func(l string) bool {
			return strings.Contains(strings.ToLower(l), q)
		}) {
			out = append(out, s.id)
		}
	}

	return out
}
