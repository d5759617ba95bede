package models

// Record — содержимое раздела: упорядоченные URL изображений + свободный текст.
// Порядок Images = порядок показа на сайте.
type Record struct {
	Images []string `json:"images"`
	Text   string   `json:"text"`
}

// Clone возвращает копию, которую можно менять без влияния на исходник.
func (r Record) Clone() Record {
	out := Record{Text: r.Text, Images: make([]string, len(r.Images))}
	copy(out.Images, r.Images)
	return out
}

// Запросы/ответы JSON API

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TextRequest struct {
	Text string `json:"text"`
}

type SectionResponse struct {
	Text   string   `json:"text"`
	HTML   string   `json:"html"`
	Images []string `json:"images"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}
