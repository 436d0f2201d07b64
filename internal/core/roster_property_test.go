package core

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/samber/lo"
	"pgregory.net/rapid"
)

// Any sequence of joins and leaves leaves every roster equal to the set of
// registered members that joined last.
func TestRosterMatchesMembershipModel(t *testing.T) {
	names := []string{"ann", "ben", "cat", "dan"}
	channels := []string{"general", "tech"}

	rapid.Check(t, func(rt *rapid.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hub := NewHub(Options{})
		go hub.Run(ctx)

		clients := make([]*Client, len(names))
		for i, name := range names {
			clients[i] = register(t, hub, fmt.Sprintf("c%d", i), name)
		}

		model := map[string]map[string]bool{}
		for _, ch := range channels {
			model[ch] = map[string]bool{}
		}

		ops := rapid.IntRange(1, 25).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			who := rapid.IntRange(0, len(names)-1).Draw(rt, "who")
			ch := rapid.SampledFrom(channels).Draw(rt, "channel")
			c := clients[who]
			if rapid.Bool().Draw(rt, "join") {
				c.Commands <- &Command{Kind: CommandJoinChannel, Channel: ch}
				model[ch][c.Name] = true
			} else {
				c.Commands <- &Command{Kind: CommandLeaveChannel, Channel: ch}
				delete(model[ch], c.Name)
			}
		}

		// A per-client round trip orders the query after every pending command.
		for i, c := range clients {
			id := fmt.Sprintf("sync-%d", i)
			c.Commands <- &Command{Kind: CommandListChannels, RequestID: id}
			mustAck(t, c.Events, id)
		}

		for _, ch := range channels {
			roster, err := hub.Roster(ctx, ch)
			if err != nil {
				rt.Fatalf("roster %s: %v", ch, err)
			}
			got := lo.Map(roster, func(e RosterEntry, _ int) string { return e.Name })
			want := lo.Keys(model[ch])
			sort.Strings(got)
			sort.Strings(want)
			if fmt.Sprint(got) != fmt.Sprint(want) {
				rt.Fatalf("channel %s: roster %v, want %v", ch, got, want)
			}
		}
	})
}
