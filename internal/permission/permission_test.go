package permission_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/permission"
)

func TestParseList(t *testing.T) {
	testCases := []struct {
		name        string
		entries     []string
		want        string
		wantInvalid []string
	}{
		{name: "single token", entries: []string{"read"}, want: "read"},
		{name: "comma joined", entries: []string{"read,write"}, want: "read,write"},
		{name: "spaces trimmed", entries: []string{" read , write "}, want: "read,write"},
		{name: "list of entries", entries: []string{"delete", "read"}, want: "read,delete"},
		{name: "duplicates collapse", entries: []string{"read,read", "read"}, want: "read"},
		{name: "storage order", entries: []string{"delete,update,write,read"}, want: "read,write,update,delete"},
		{name: "unknown token", entries: []string{"read,all"}, wantInvalid: []string{"all"}},
		{name: "case sensitive", entries: []string{"Read", "WRITE"}, wantInvalid: []string{"Read", "WRITE"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := permission.ParseList(tc.entries)

			if tc.wantInvalid != nil {
				require.Error(t, err)

				var invalid *permission.InvalidError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, tc.wantInvalid, invalid.Tokens)
				assert.True(t, errors.Is(err, apperror.ErrValidation))
				assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
				assert.True(t, set.Empty())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, set.String())
		})
	}
}

func TestParseListEmpty(t *testing.T) {
	_, err := permission.ParseList([]string{" , "})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestSetHas(t *testing.T) {
	set := permission.MustParse("read,write")

	assert.True(t, set.Has(permission.Read))
	assert.True(t, set.Has(permission.Write))
	assert.False(t, set.Has(permission.Update))
	assert.False(t, set.Has(permission.Delete))
	assert.False(t, set.Has(permission.Perm(0)))
	assert.False(t, set.Has(permission.Read|permission.Write))
}

func TestRoundTrip(t *testing.T) {
	for _, value := range []string{"read", "read,write", "read,write,update,delete", "update,delete"} {
		set := permission.MustParse(value)
		again, err := permission.ParseString(set.String())
		require.NoError(t, err)
		assert.Equal(t, set, again)
	}
}

func TestParseToken(t *testing.T) {
	for _, p := range permission.All() {
		got, ok := permission.Parse(p.String())
		require.True(t, ok)
		assert.Equal(t, p, got)
	}

	_, ok := permission.Parse("readwrite")
	assert.False(t, ok)
}
