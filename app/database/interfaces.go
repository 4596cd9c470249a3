package database

import (
	"github.com/ogarral/rss-curator/app/feed"
)

type StateRepository interface {
	LoadState(groupName string) (*feed.State, error)
	SaveState(groupName string, state *feed.State) error

	GetGroupCount() (int, error)
	GetStateStats(groupName string) (int, int, int, error)
}
