package portaria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupFragments(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  map[string][]string
	}{
		{
			name: "break suffixes ordered ascending with header first",
			names: []string{
				"515_20250819_999-2.xml",
				"515_20250819_999-1.xml",
				"515_20250819_999.xml",
			},
			want: map[string][]string{
				"999": {
					"515_20250819_999.xml",
					"515_20250819_999-1.xml",
					"515_20250819_999-2.xml",
				},
			},
		},
		{
			name: "separate matérias bucket independently",
			names: []string{
				"515_20250819_111.xml",
				"515_20250819_222-1.xml",
				"515_20250819_222.xml",
			},
			want: map[string][]string{
				"111": {"515_20250819_111.xml"},
				"222": {"515_20250819_222.xml", "515_20250819_222-1.xml"},
			},
		},
		{
			name: "non-conforming names ignored",
			names: []string{
				"readme.txt",
				"515_20250819.xml",
				"515_20250819_333.xml",
			},
			want: map[string][]string{
				"333": {"515_20250819_333.xml"},
			},
		},
		{
			name:  "empty archive",
			names: nil,
			want:  map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := groupFragments(tt.names)
			require.Len(t, groups, len(tt.want))
			for _, group := range groups {
				wantNames, ok := tt.want[group.baseID]
				require.True(t, ok, "unexpected group %s", group.baseID)
				gotNames := make([]string, 0, len(group.fragments))
				for _, fragment := range group.fragments {
					gotNames = append(gotNames, fragment.name)
				}
				assert.Equal(t, wantNames, gotNames)
			}
		})
	}
}

func TestGroupFragments_SortedByBaseID(t *testing.T) {
	groups := groupFragments([]string{
		"515_20250819_300.xml",
		"515_20250819_100.xml",
		"515_20250819_200.xml",
	})
	require.Len(t, groups, 3)
	assert.Equal(t, "100", groups[0].baseID)
	assert.Equal(t, "200", groups[1].baseID)
	assert.Equal(t, "300", groups[2].baseID)
}
