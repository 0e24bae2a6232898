package domain_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/foro/internal/domain"
)

func TestParsePageRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		page        string
		size        string
		sort        string
		defaultSort string
		want        domain.PageRequest
		wantErr     bool
	}{
		{
			name:        "defaults",
			defaultSort: "fechaCreacion",
			want:        domain.PageRequest{Page: 0, Size: 10, SortField: "fechaCreacion", SortDir: domain.SortAsc},
		},
		{
			name: "explicit values",
			page: "2",
			size: "5",
			sort: "curso,desc",
			want: domain.PageRequest{Page: 2, Size: 5, SortField: "curso", SortDir: domain.SortDesc},
		},
		{
			name: "size is capped",
			size: "1000",
			want: domain.PageRequest{Page: 0, Size: domain.MaxPageSize, SortDir: domain.SortAsc},
		},
		{
			name:    "negative page",
			page:    "-1",
			wantErr: true,
		},
		{
			name: "last page",
			page: strconv.Itoa(domain.MaxPage),
			size: "100",
			want: domain.PageRequest{Page: domain.MaxPage, Size: 100, SortDir: domain.SortAsc},
		},
		{
			name:    "page offset overflows",
			page:    "922337203685477581",
			size:    "10",
			wantErr: true,
		},
		{
			name:    "page past max",
			page:    strconv.Itoa(domain.MaxPage + 1),
			wantErr: true,
		},
		{
			name:    "zero size",
			size:    "0",
			wantErr: true,
		},
		{
			name:    "bad direction",
			sort:    "id,sideways",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := domain.ParsePageRequest(tt.page, tt.size, tt.sort, tt.defaultSort)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidPageRequest))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	page := domain.NewPage([]int{1, 2, 3}, domain.PageRequest{Page: 1, Size: 3}, 7)

	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(7), page.TotalElements)
	assert.Equal(t, 1, page.Page)

	empty := domain.NewPage[int](nil, domain.PageRequest{Size: 10}, 0)
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)

	mapped := domain.MapPage(page, func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"b", "c", "d"}, mapped.Content)
	assert.Equal(t, page.TotalPages, mapped.TotalPages)
}

func TestPageRequest_OffsetNeverNegative(t *testing.T) {
	t.Parallel()

	req, err := domain.ParsePageRequest(strconv.Itoa(domain.MaxPage), strconv.Itoa(domain.MaxPageSize), "", "")
	require.NoError(t, err)
	assert.Positive(t, req.Offset())
}
