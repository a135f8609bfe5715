package settings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportMentions(t *testing.T) {
	t.Parallel()

	roleID := int64(77)

	assert.Equal(t, "**New report!**", reportContent(nil))
	assert.Nil(t, reportRoles(nil))

	assert.Equal(t, "<@&77>", reportContent(&roleID))
	assert.Equal(t, []string{"77"}, reportRoles(&roleID))
}

func TestReportEmbed(t *testing.T) {
	t.Parallel()

	embed := reportEmbed(5, 6, strings.Repeat("a", 2000), "general")

	assert.Contains(t, embed.Description, "<@5>")
	assert.Contains(t, embed.Description, "<@6>")
	assert.Less(t, len([]rune(embed.Description)), 1700)
	assert.Equal(t, "Sent from #general", embed.Footer.Text)
	assert.NotEmpty(t, embed.Timestamp)
}
