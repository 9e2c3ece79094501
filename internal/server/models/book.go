package models

// Book is a catalog entry keyed by ISBN.
type Book struct {
	ID              int64  `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publicationYear"`
	CoverKey        string `json:"-"`
}
