package models

// ReferenceKind названия справочников, которые форма загружает при открытии.
type ReferenceKind string

const (
	KindCategories ReferenceKind = "categories"
	KindBrands     ReferenceKind = "brands"
	KindStores     ReferenceKind = "stores"
)

var ReferenceKinds = []ReferenceKind{KindCategories, KindBrands, KindStores}

func (k ReferenceKind) Valid() bool {
	switch k {
	case KindCategories, KindBrands, KindStores:
		return true
	}
	return false
}

// ReferenceItem элемент справочника: категория, бренд или магазин.
type ReferenceItem struct {
	ID    string `json:"_id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}
