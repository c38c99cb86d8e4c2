package domain

// PlaceholderCoverURL is served for books that have no ingested file or
// whose archive contained no extractable image.
const PlaceholderCoverURL = "/static/img/cover.jpg"

// FileURL returns the canonical download path for a content hash.
func FileURL(hash string) string {
	return "/books/file/" + hash + ".epub"
}

// CoverURL returns the canonical cover path for a content hash.
func CoverURL(hash string) string {
	return "/books/cover/" + hash + ".jpg"
}

// Book represents a catalogue entry. Title, Author, and ISBN are required;
// everything else is optional. FileHash is empty until an archive has been
// ingested for the book.
type Book struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	ISBN            string   `json:"isbn"`
	Publisher       string   `json:"publisher,omitempty"`
	PublicationDate string   `json:"publication_date,omitempty"`
	Description     string   `json:"description,omitempty"`
	PageCount       int      `json:"page_count,omitempty"`
	Language        string   `json:"language,omitempty"`
	Genre           string   `json:"genre,omitempty"`
	ReadingAge      int      `json:"reading_age,omitempty"`
	Catalogues      []string `json:"catalogues"`
	FileHash        string   `json:"-"`
	CoverBlurHash   string   `json:"cover_blur_hash,omitempty"`
	FileURL         string   `json:"file_url,omitempty"`
	CoverURL        string   `json:"cover_url"`
}

// DeriveURLs fills FileURL and CoverURL from the content hash.
// Books without a file get no file URL and the placeholder cover.
func (b *Book) DeriveURLs() {
	if b.FileHash == "" {
		b.FileURL = ""
		b.CoverURL = PlaceholderCoverURL
		return
	}
	b.FileURL = FileURL(b.FileHash)
	b.CoverURL = CoverURL(b.FileHash)
}

// BookPatch carries a partial metadata update. An empty string or zero
// value means "leave the stored value unchanged" - a field explicitly sent
// as empty is still treated as absent. This mirrors the update form's
// historical behavior and is relied on by callers; do not "fix" it.
// Catalogues is always applied in full: the stored link set is replaced
// with exactly this list (nil clears all links).
type BookPatch struct {
	Title           string
	Author          string
	ISBN            string
	Publisher       string
	PublicationDate string
	Description     string
	PageCount       int
	Language        string
	Genre           string
	ReadingAge      int
	Catalogues      []string
}

// BookSummary is a search result row: full metadata minus the catalogue
// list and file URL, plus the derived cover URL.
type BookSummary struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Publisher       string `json:"publisher,omitempty"`
	PublicationDate string `json:"publication_date,omitempty"`
	Description     string `json:"description,omitempty"`
	PageCount       int    `json:"page_count,omitempty"`
	Language        string `json:"language,omitempty"`
	Genre           string `json:"genre,omitempty"`
	ReadingAge      int    `json:"reading_age,omitempty"`
	CoverBlurHash   string `json:"cover_blur_hash,omitempty"`
	CoverURL        string `json:"cover_url"`
}
