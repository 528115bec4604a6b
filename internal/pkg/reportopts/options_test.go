package reportopts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	s, err := New(Ports, Summary)
	require.NoError(t, err)

	got, err := s.BuildURL("12")
	require.NoError(t, err)
	// Display order, not insertion order
	assert.Equal(t, "/generate_report/12?options%5B%5D=summary&options%5B%5D=ports", got)
}

func TestBuildURL_NoOptionsSelected(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	_, err = s.BuildURL("12")
	assert.ErrorIs(t, err, ErrNoOptionsSelected)
}

func TestSelectAllDeselectAll(t *testing.T) {
	s, err := New(Defaults...)
	require.NoError(t, err)
	assert.Equal(t, Defaults, s.Selected())

	s.SelectAll()
	assert.Equal(t, All, s.Selected())

	s.DeselectAll()
	assert.Empty(t, s.Selected())
	assert.False(t, s.IsSelected(Summary))

	// Deselecting is not an error until the report is requested
	_, err = s.BuildURL("1")
	assert.ErrorIs(t, err, ErrNoOptionsSelected)
}

func TestSet(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	require.NoError(t, s.Set(TopIPs, true))
	assert.True(t, s.IsSelected(TopIPs))
	require.NoError(t, s.Set(TopIPs, false))
	assert.False(t, s.IsSelected(TopIPs))

	assert.Error(t, s.Set("charts", true))
	_, err = New("charts")
	assert.Error(t, err)
}
