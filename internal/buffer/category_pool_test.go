package buffer

import "testing"

func TestCategoryFor(t *testing.T) {
	cases := map[string]Category{
		".dmp":  CategoryMemory,
		".evtx": CategoryEventLog,
		".hive": CategoryRegistry,
		".txt":  CategoryDefault,
	}
	for ext, want := range cases {
		if got := CategoryFor(ext); got != want {
			t.Errorf("CategoryFor(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestCategoryPool_GetReturnsConfiguredSize(t *testing.T) {
	p := NewCategoryPool()
	for cat, size := range categorySizes {
		buf := p.Get(cat)
		if len(buf) != size {
			t.Errorf("category %v: got buffer len %d, want %d", cat, len(buf), size)
		}
		p.Put(cat, buf)
	}
}

func TestCategoryPool_UnknownCategoryFallsBackToDefault(t *testing.T) {
	p := NewCategoryPool()
	buf := p.Get(Category("unknown"))
	if len(buf) != SizeFor(CategoryDefault) {
		t.Errorf("expected default-sized buffer, got %d", len(buf))
	}
}
