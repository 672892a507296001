package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_SlidingWindow(t *testing.T) {
	c := &Conversation{}
	for i := 0; i < 25; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAgent
		}
		c.Append(role, "turn", 20)
	}

	assert.Len(t, c.Turns, 20)
}

func TestAppend_NoLimit(t *testing.T) {
	c := &Conversation{}
	for i := 0; i < 5; i++ {
		c.Append(RoleUser, "turn", 0)
	}
	assert.Len(t, c.Turns, 5)
}

func TestClone_DeepCopies(t *testing.T) {
	c := &Conversation{
		ID:            "conv_a",
		Turns:         []Turn{{Role: RoleUser, Text: "hi"}},
		Qualification: QualificationCollecting,
		Lead:          map[string]string{"first_name": "Priya"},
	}

	cp := c.Clone()
	cp.Turns[0].Text = "changed"
	cp.Lead["first_name"] = "Other"

	assert.Equal(t, "hi", c.Turns[0].Text)
	assert.Equal(t, "Priya", c.Lead["first_name"])
}

func TestQualificationStatus_Active(t *testing.T) {
	active := []QualificationStatus{
		QualificationConsentPending,
		QualificationCollecting,
		QualificationConfirming,
	}
	for _, s := range active {
		require.True(t, s.Active(), "status %s", s)
	}

	assert.False(t, QualificationNotStarted.Active())
	assert.False(t, QualificationCompleted.Active())
}
