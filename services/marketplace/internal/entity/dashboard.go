package entity

type Counters struct {
	Users            int64 `json:"users"`
	Posters          int64 `json:"posters"`
	PendingPosters   int64 `json:"pendingPosters"`
	PublishedPosters int64 `json:"publishedPosters"`
	Categories       int64 `json:"categories"`
	Consultants      int64 `json:"consultants"`
	Videos           int64 `json:"videos"`
}
