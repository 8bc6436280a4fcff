package services

import (
	"testing"

	"relay/services/logger"

	"github.com/stretchr/testify/assert"
)

func TestChatworkVerifyToken(t *testing.T) {
	t.Parallel()

	s := &ChatworkService{WebhookToken: "shared-token", Logger: logger.NewNopLogger()}

	assert.True(t, s.VerifyToken("shared-token"))
	assert.False(t, s.VerifyToken("wrong"))
	assert.False(t, s.VerifyToken(""))

	empty := &ChatworkService{Logger: logger.NewNopLogger()}
	assert.False(t, empty.VerifyToken("anything"))
}

func TestChatworkIsMention(t *testing.T) {
	t.Parallel()

	s := &ChatworkService{BotAccountID: "12345", Logger: logger.NewNopLogger()}

	assert.True(t, s.IsMention("[To:12345] 東京オフィスはどこ？"))
	assert.False(t, s.IsMention("[To:99999] 別の人宛て"))
	assert.False(t, s.IsMention("普通のメッセージ"))

	noBot := &ChatworkService{Logger: logger.NewNopLogger()}
	assert.False(t, noBot.IsMention("[To:12345] hello"))
}

func TestStripTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "東京オフィスはどこ？", StripTags("[To:12345] 東京オフィスはどこ？"))
	assert.Equal(t, "返信です", StripTags("[rp aid=1 to=2-3] 返信です"))
	assert.Equal(t, "タグなし", StripTags("タグなし"))
	assert.Equal(t, "", StripTags("[To:12345]"))
}
