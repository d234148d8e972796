package domain_test

import (
	"testing"

	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestNewTopic_EncodeDecode(t *testing.T) {
	t.Parallel()
	topic := domain.NewTopic("/sensors/temp")
	require.NotEmpty(t, topic.TopicID)
	require.Equal(t, "/sensors/temp", topic.TopicName)

	decoded, err := domain.DecodeTopic(string(topic.Encode()))
	require.NoError(t, err)
	require.Equal(t, topic, decoded)

	require.NotEqual(t, topic.TopicID, domain.NewTopic("/sensors/temp").TopicID)
}

func TestDecodeTopic_Malformed(t *testing.T) {
	t.Parallel()
	_, err := domain.DecodeTopic("{not json")
	require.Error(t, err)

	for _, raw := range []string{"null", "{}", `{"unrelated":1}`, `{"topicName":"/a"}`, `{"topicId":"id-1"}`} {
		_, err := domain.DecodeTopic(raw)
		require.ErrorIs(t, err, domain.ErrIncompleteTopic, raw)
	}
}

func TestUser_EncodeDecode(t *testing.T) {
	t.Parallel()
	u := domain.User{Username: "alice", Password: "pw1", IsSuperuser: true}
	decoded, err := domain.DecodeUser(string(u.Encode()))
	require.NoError(t, err)
	require.Equal(t, u, decoded)

	_, err = domain.DecodeUser("[]")
	require.Error(t, err)

	for _, raw := range []string{"null", "{}", `{"password":"leak"}`} {
		_, err := domain.DecodeUser(raw)
		require.ErrorIs(t, err, domain.ErrIncompleteUser, raw)
	}
}
