package tui

import (
	"os"
	"time"

	devicons "github.com/epilande/go-devicons"
)

type iconFileInfo struct {
	name string
}

func (i iconFileInfo) Name() string       { return i.name }
func (i iconFileInfo) Size() int64        { return 0 }
func (i iconFileInfo) Mode() os.FileMode  { return 0 }
func (i iconFileInfo) ModTime() time.Time { return time.Time{} }
func (i iconFileInfo) IsDir() bool        { return false }
func (i iconFileInfo) Sys() any           { return nil }

func deviconForName(name string) string {
	if name == "" {
		return ""
	}
	style := devicons.IconForInfo(iconFileInfo{name: name})
	return style.Icon
}
