package models

// ImageFile исходный файл изображения, выбранный пользователем.
type ImageFile struct {
	Name string
	Data []byte
}
