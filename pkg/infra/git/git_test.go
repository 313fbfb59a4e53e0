package git_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/mate-desktop/mate-release/pkg/infra/cmdexec"
	"github.com/mate-desktop/mate-release/pkg/infra/git"
)

func TestCommitSubjects(t *testing.T) {
	ctx := context.Background()

	t.Run("range between tags", func(t *testing.T) {
		fake := cmdexec.NewFake().On("git log --pretty=- %s v1.0.0..v1.0.1", "- fix crash\n- update translations\n\n")
		lines, err := git.New(fake).CommitSubjects(ctx, "v1.0.0", "v1.0.1")
		gt.NoError(t, err)
		gt.Array(t, lines).Equal([]string{"- fix crash", "- update translations"})
	})

	t.Run("first release uses whole history", func(t *testing.T) {
		fake := cmdexec.NewFake().On("git log", "- initial import\n")
		lines, err := git.New(fake).CommitSubjects(ctx, "", "v1.0.0")
		gt.NoError(t, err)
		gt.Array(t, lines).Equal([]string{"- initial import"})
		gt.Array(t, fake.Calls()[0].Args).Equal([]string{"log", "--pretty=- %s", "v1.0.0"})
	})

	t.Run("no commits", func(t *testing.T) {
		fake := cmdexec.NewFake().On("git log", "")
		lines, err := git.New(fake).CommitSubjects(ctx, "v1", "v2")
		gt.NoError(t, err)
		gt.Array(t, lines).Length(0)
	})

	t.Run("git failure", func(t *testing.T) {
		fake := cmdexec.NewFake().Fail("git log", "fatal: bad revision")
		_, err := git.New(fake).CommitSubjects(ctx, "v1", "v2")
		gt.Error(t, err)
	})
}
