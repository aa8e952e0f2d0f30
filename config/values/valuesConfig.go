package values

import "time"

// FormValues настройки формы создания товара.
type FormValues struct {
	DecodeWorkers int   `yaml:"decode-workers"`
	MaxImageBytes int64 `yaml:"max-image-bytes"`
}

// CacheValues настройки кэша справочников (категории, бренды, магазины).
type CacheValues struct {
	TTL    time.Duration `yaml:"ttl"`
	Prefix string        `yaml:"prefix"`
}

const (
	DefaultDecodeWorkers = 4
	DefaultMaxImageBytes = 10 << 20
	DefaultCacheTTL      = 5 * time.Minute
	DefaultCachePrefix   = "catalog:reference:"
)

func (f *FormValues) ApplyDefaults() {
	if f.DecodeWorkers <= 0 {
		f.DecodeWorkers = DefaultDecodeWorkers
	}
	if f.MaxImageBytes <= 0 {
		f.MaxImageBytes = DefaultMaxImageBytes
	}
}

func (c *CacheValues) ApplyDefaults() {
	if c.TTL <= 0 {
		c.TTL = DefaultCacheTTL
	}
	if c.Prefix == "" {
		c.Prefix = DefaultCachePrefix
	}
}
