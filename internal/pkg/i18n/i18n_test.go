package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator_T(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	data := map[string]string{"FromDate": "2025-03-10", "ToDate": "2025-03-12"}

	assert.Equal(t, "Leave Request Approved", tr.T("", "leave_approved.title", nil))
	assert.Equal(t,
		"Your leave request from 2025-03-10 to 2025-03-12 has been rejected.",
		tr.T("en", "leave_rejected.description", data))
	assert.Equal(t,
		"Pengajuan cuti Anda dari 2025-03-10 sampai 2025-03-12 telah disetujui.",
		tr.T("id", "leave_approved.description", data))
}

func TestTranslator_FallsBack(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "Leave Request Rejected", tr.T("fr", "leave_rejected.title", nil))
	assert.Equal(t, "no.such.message", tr.T("en", "no.such.message", nil))
}
