package leave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLeaveType(t *testing.T) {
	tests := []struct {
		input string
		want  LeaveType
	}{
		{"Sick", LeaveTypeSick},
		{"sick", LeaveTypeSick},
		{"SICK", LeaveTypeSick},
		{" Casual ", LeaveTypeCasual},
		{"Earned", LeaveTypeEarned},
		{"Unpaid", LeaveTypeUnpaid},
		{"Sabbatical", LeaveType("Sabbatical")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLeaveType(tt.input))
		})
	}
}

func TestApplyLeaveRequest_ToNewRequest_NormalizesType(t *testing.T) {
	body := ApplyLeaveRequest{FromDate: "2025-03-10", ToDate: "2025-03-12", LeaveType: "Earned"}
	req := body.ToNewRequest("emp-1", "budi@cmlabs.co")

	assert.Equal(t, LeaveTypeEarned, req.LeaveType)
	_, known := req.LeaveType.Tracked()
	assert.True(t, known)
}
