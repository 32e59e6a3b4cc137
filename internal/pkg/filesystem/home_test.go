package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "rules.yaml"), ExpandPath("~/rules.yaml"))
	assert.Equal(t, "/etc/shellsage.yaml", ExpandPath("/etc/shellsage.yaml"))
	assert.Equal(t, "conf/x.yaml", ExpandPath("./conf//x.yaml"))
	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, filepath.Join(home, ".shellsage", "cache"), AppDir("cache"))
}
