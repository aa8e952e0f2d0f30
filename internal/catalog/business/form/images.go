package form

import (
	"context"
	"encoding/base64"
	"fmt"
	"gomarketplace_admin/internal/catalog/business/models"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

// SelectImages заменяет выбранные файлы и запускает декодирование превью.
// Превью добавляются по мере готовности, поэтому их порядок может не
// совпадать с порядком файлов. Результаты предыдущего выбора отбрасываются.
func (f *Form) SelectImages(files []models.ImageFile) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFormClosed
	}
	f.generation++
	generation := f.generation
	selected := append([]models.ImageFile(nil), files...)
	f.files = selected
	f.failed = make(map[int]bool)
	f.previews = nil
	done := make(chan struct{})
	f.decoding = done
	f.mu.Unlock()

	go func() {
		defer close(done)

		var g errgroup.Group
		g.SetLimit(f.decodeWorkers)
		for i, file := range selected {
			g.Go(func() error {
				if f.ctx.Err() != nil {
					return nil
				}
				preview, err := decodePreview(file, f.maxImageBytes)
				f.appendPreview(generation, i, preview, err)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return nil
}

func (f *Form) appendPreview(generation, index int, preview Preview, err error) {
	f.mu.Lock()
	if f.closed || generation != f.generation {
		f.mu.Unlock()
		return
	}
	if err != nil {
		f.failed[index] = true
		f.mu.Unlock()
		f.notifier.Error(err.Error())
		return
	}
	f.previews = append(f.previews, preview)
	f.mu.Unlock()
}

// WaitImages ждёт окончания декодирования текущего выбора.
func (f *Form) WaitImages(ctx context.Context) error {
	f.mu.Lock()
	done := f.decoding
	f.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Form) Previews() []Preview {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Preview(nil), f.previews...)
}

// Files выбранные файлы без тех, что не удалось декодировать.
func (f *Form) Files() []models.ImageFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeFiles()
}

func (f *Form) activeFiles() []models.ImageFile {
	out := make([]models.ImageFile, 0, len(f.files))
	for i, file := range f.files {
		if !f.failed[i] {
			out = append(out, file)
		}
	}
	return out
}

func decodePreview(file models.ImageFile, maxBytes int64) (Preview, error) {
	if len(file.Data) == 0 {
		return Preview{}, fmt.Errorf("%s is empty", file.Name)
	}
	if int64(len(file.Data)) > maxBytes {
		return Preview{}, fmt.Errorf("%s is larger than %d bytes", file.Name, maxBytes)
	}
	mime := mimetype.Detect(file.Data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return Preview{}, fmt.Errorf("%s is not an image (%s)", file.Name, mime.String())
	}
	return Preview{
		Name:    file.Name,
		DataURI: "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(file.Data),
	}, nil
}
