package policy

import (
	"testing"

	"github.com/atticfs/attic/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Policy)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Policy) {}, ok: true},
		{name: "zero max file size", mutate: func(p *Policy) { p.MaxFileSize = 0 }, ok: false},
		{name: "negative dir entries", mutate: func(p *Policy) { p.MaxDirEntries = -1 }, ok: false},
		{name: "warn above max file", mutate: func(p *Policy) { p.WarnFileSize = p.MaxFileSize + 1 }, ok: false},
		{name: "warn above max tree", mutate: func(p *Policy) { p.WarnTreeSize = p.MaxTreeSize + 1 }, ok: false},
		{name: "recommended above warn", mutate: func(p *Policy) { p.RecommendedTreeSize = p.WarnTreeSize + 1 }, ok: false},
		{name: "warn equal to max is allowed", mutate: func(p *Policy) { p.WarnFileSize = p.MaxFileSize }, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPolicy)
			}
		})
	}
}

func TestClassifyFileSize(t *testing.T) {
	p := Policy{MaxFileSize: 100, WarnFileSize: 50, MaxDirEntries: 10, MaxTreeSize: 1000, WarnTreeSize: 500, RecommendedTreeSize: 100}

	tests := []struct {
		size int64
		want types.Kind
	}{
		{size: 1, want: types.KindNormal},
		{size: 50, want: types.KindNormal}, // warning threshold is strict
		{size: 51, want: types.KindSizeWarning},
		{size: 99, want: types.KindSizeWarning},
		{size: 100, want: types.KindSizeViolation}, // hard limit is inclusive
		{size: 101, want: types.KindSizeViolation},
	}
	for _, tt := range tests {
		kind, _ := p.ClassifyFileSize(tt.size)
		assert.Equal(t, tt.want, kind, "size %d", tt.size)
	}
}

func TestClassifyDirCount(t *testing.T) {
	p := Default()
	kind, _ := p.ClassifyDirCount(p.MaxDirEntries)
	assert.Equal(t, types.KindNormal, kind)
	kind, threshold := p.ClassifyDirCount(p.MaxDirEntries + 1)
	assert.Equal(t, types.KindDirCountWarning, kind)
	assert.Equal(t, int64(p.MaxDirEntries), threshold)
}

func TestClassifyTreeSize(t *testing.T) {
	p := Policy{MaxFileSize: 1, WarnFileSize: 1, MaxDirEntries: 1, MaxTreeSize: 1000, WarnTreeSize: 500, RecommendedTreeSize: 100}

	assert.Equal(t, types.TreeOK, p.ClassifyTreeSize(100))
	assert.Equal(t, types.TreeOverRecommended, p.ClassifyTreeSize(101))
	assert.Equal(t, types.TreeOverWarning, p.ClassifyTreeSize(501))
	assert.Equal(t, types.TreeOverMax, p.ClassifyTreeSize(1001))
}
