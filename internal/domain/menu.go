package domain

import "time"

type Menu struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Location  string      `json:"location"`
	CreatedAt time.Time   `json:"createdAt"`
	Items     []*MenuItem `json:"items,omitempty"`
}

type MenuItem struct {
	ID        string      `json:"id"`
	MenuID    string      `json:"-"`
	ParentID  *string     `json:"parentId,omitempty"`
	Label     string      `json:"label"`
	URL       string      `json:"url"`
	SortOrder int         `json:"order"`
	Children  []*MenuItem `json:"children,omitempty"`
}
