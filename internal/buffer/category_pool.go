package buffer

import "sync"

// Category identifies the file-extension class the Raw Reader uses to size
// its thread-local reusable buffer.
type Category string

const (
	CategoryMemory   Category = "memory"   // paging/hibernation files, .dmp, .raw
	CategoryNTFSMeta Category = "ntfsmeta" // $MFT, $LogFile, $UsnJrnl
	CategoryEventLog Category = "eventlog" // .evt, .evtx
	CategoryRegistry Category = "registry" // .dat, .hive
	CategoryDefault  Category = "default"
)

// categorySizes is the buffer working size per category.
var categorySizes = map[Category]int{
	CategoryMemory:   4 * 1024 * 1024,
	CategoryNTFSMeta: 2 * 1024 * 1024,
	CategoryEventLog: 1 * 1024 * 1024,
	CategoryRegistry: 512 * 1024,
	CategoryDefault:  256 * 1024,
}

// CategoryPool hands out reusable byte buffers keyed by file-extension
// category rather than raw byte size, generalizing a flat size-bucket
// scheme. Go has no stable thread affinity for goroutines, so each
// category is backed by a sync.Pool addressed per-goroutine instead of
// per-OS-thread, the idiomatic analogue of a buffer owned per OS thread
// and never shared.
type CategoryPool struct {
	pools map[Category]*sync.Pool
}

// NewCategoryPool builds a pool with one bucket per known category.
func NewCategoryPool() *CategoryPool {
	p := &CategoryPool{pools: make(map[Category]*sync.Pool, len(categorySizes))}
	for cat, size := range categorySizes {
		size := size
		p.pools[cat] = &sync.Pool{
			New: func() interface{} {
				return make([]byte, size)
			},
		}
	}
	return p
}

// CategoryFor maps a source path's extension to its buffer category.
func CategoryFor(ext string) Category {
	switch ext {
	case ".dmp", ".raw", ".sys", ".hiberfil":
		return CategoryMemory
	case ".mft", ".logfile", ".usnjrnl":
		return CategoryNTFSMeta
	case ".evt", ".evtx":
		return CategoryEventLog
	case ".dat", ".hive":
		return CategoryRegistry
	default:
		return CategoryDefault
	}
}

// Get returns a buffer sized for category, reused from the pool when
// available.
func (p *CategoryPool) Get(cat Category) []byte {
	pool, ok := p.pools[cat]
	if !ok {
		pool = p.pools[CategoryDefault]
	}
	return pool.Get().([]byte)
}

// Put returns buf to its category's pool for reuse.
func (p *CategoryPool) Put(cat Category, buf []byte) {
	pool, ok := p.pools[cat]
	if !ok {
		pool = p.pools[CategoryDefault]
	}
	pool.Put(buf) //nolint:staticcheck // SA6002: sync.Pool.Put requires interface{}
}

// SizeFor returns the configured working size for a category.
func SizeFor(cat Category) int {
	if size, ok := categorySizes[cat]; ok {
		return size
	}
	return categorySizes[CategoryDefault]
}
