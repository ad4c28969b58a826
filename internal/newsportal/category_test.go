package newsportal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelOf(t *testing.T) {
	tests := []struct {
		categoryID int
		expected   Category
	}{
		{categoryID: 1, expected: Politics},
		{categoryID: 2, expected: Business},
		{categoryID: 3, expected: Sports},
		{categoryID: 4, expected: Technology},
		{categoryID: 5, expected: Health},
		{categoryID: 0, expected: Unclassified},
		{categoryID: -1, expected: Unclassified},
		{categoryID: 6, expected: Unclassified},
		{categoryID: 1 << 30, expected: Unclassified},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LabelOf(tt.categoryID), "category id %d", tt.categoryID)
	}
}

func TestIDOf_RoundTrip(t *testing.T) {
	for _, category := range Categories() {
		id, err := IDOf(category)
		require.NoError(t, err)
		assert.Equal(t, category, LabelOf(id))
	}
}

func TestIDOf_Unknown(t *testing.T) {
	for _, category := range []Category{"weather", Unclassified, All, ""} {
		_, err := IDOf(category)
		require.ErrorIs(t, err, ErrUnknownCategory, "category %q", category)
	}
}

func TestMustIDOf_PanicsOnUnknown(t *testing.T) {
	assert.Equal(t, 1, MustIDOf(Politics))
	assert.Panics(t, func() { MustIDOf("weather") })
}

func TestCategories_CanonicalOrder(t *testing.T) {
	assert.Equal(t, []Category{Politics, Business, Sports, Technology, Health}, Categories())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		wantErr  bool
	}{
		{input: "politics", expected: Politics},
		{input: "  Sports ", expected: Sports},
		{input: "ALL", expected: All},
		{input: "unclassified", expected: Unclassified},
		{input: "weather", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			category, err := ParseCategory(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, category)
		})
	}
}

func TestCategory_Title(t *testing.T) {
	assert.Equal(t, "Technology", Technology.Title())
	assert.Equal(t, "All", All.Title())
	assert.Equal(t, "Unclassified", Unclassified.Title())
	assert.Equal(t, "Unclassified", Category("weather").Title())
}
