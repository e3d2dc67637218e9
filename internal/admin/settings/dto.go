package settings

// Entity describes one of the lookup tables managed from the settings
// screen. All four share the same shape upstream; sub-categories
// additionally hang off a parent category.
type Entity struct {
	Key         string
	Path        string
	DisplayName string
	HasParent   bool
}

var (
	Categories    = Entity{Key: "category", Path: "/category", DisplayName: "Categories"}
	SubCategories = Entity{Key: "sub_category", Path: "/sub_category", DisplayName: "Sub Categories", HasParent: true}
	Tags          = Entity{Key: "tags", Path: "/tags", DisplayName: "Tags"}
	Counters      = Entity{Key: "counter", Path: "/counter", DisplayName: "Counters"}
)

// Entities lists the settings tabs in display order.
var Entities = []Entity{Categories, SubCategories, Tags, Counters}

// EntityByKey resolves a tab key from the route.
func EntityByKey(key string) (Entity, bool) {
	for _, e := range Entities {
		if e.Key == key {
			return e, true
		}
	}
	return Entity{}, false
}

// Item is a lookup row. Category is only set on sub-categories.
type Item struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category int64  `json:"category,omitempty"`
}

// ListRequest is the retrieve body for a settings table.
type ListRequest struct {
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
	Search   string `json:"search,omitempty"`
	Category int64  `json:"category,omitempty"`
}

// SaveRequest carries the add and edit forms for every lookup entity.
type SaveRequest struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name" validate:"required,max=100"`
	Category int64  `json:"category,omitempty"`
}
