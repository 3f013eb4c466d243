package email

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymhub/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func TestService_SendMembershipWelcome_Queues(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := New(rdb, "noreply@gymhub.example", "GymHub", "localhost", "1025", "", "")

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	err := svc.SendMembershipWelcome(context.Background(), "sami@example.com", "Sami B", "Iron Temple")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Send_QueueFailureSurfaces(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := New(rdb, "noreply@gymhub.example", "GymHub", "localhost", "1025", "", "")

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetErr(assert.AnError)

	err := svc.Send(context.Background(), "x@example.com", "X", "Subject", "Body")
	assert.Error(t, err)
}

func TestJob_RoundTripCarriesTries(t *testing.T) {
	job := Job{To: "x@example.com", Name: "X", Subject: "s", Body: "b", Tries: 2}

	data, err := json.Marshal(job)
	require.NoError(t, err)

	var decoded Job
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.Tries)
	assert.Equal(t, "x@example.com", decoded.To)
}
