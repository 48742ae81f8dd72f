// mentions_test.go
//
// Inventory, supplier and product change-history service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of inventario.
// inventario is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// inventario is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with inventario.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/localnerve/inventario/internal/models"
	"github.com/localnerve/inventario/internal/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMentions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "no mentions here", []string{}},
		{"single", "hey @carol", []string{"carol"}},
		{"distinct in order", "@bob and @carol, then @bob again", []string{"bob", "carol"}},
		{"punctuation ends token", "ping @dave_2!", []string{"dave_2"}},
		{"email-like", "mail me at a@b", []string{"b"}},
		{"bare at", "@ alone", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMentions(tt.text))
		})
	}
}

func TestBuildRedirectURL(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	t.Run("plain path", func(t *testing.T) {
		got := BuildRedirectURL("/products/p1", LinkTarget{ProductID: "p1", MentionType: "product_note"}, now)
		assert.Equal(t, "/products/p1?p=p1&mt=product_note&_nt=1700000000000", got)
	})

	t.Run("empty base", func(t *testing.T) {
		got := BuildRedirectURL("", LinkTarget{}, now)
		assert.Equal(t, "/?_nt=1700000000000", got)
	})

	t.Run("existing query", func(t *testing.T) {
		got := BuildRedirectURL("/sheets?id=7", LinkTarget{TargetID: "cell-1-2"}, now)
		assert.Equal(t, "/sheets?id=7&t=cell-1-2&_nt=1700000000000#cell-1-2", got)
	})

	t.Run("keeps fragment without target", func(t *testing.T) {
		got := BuildRedirectURL("/products/p1#history", LinkTarget{}, now)
		assert.Equal(t, "/products/p1?_nt=1700000000000#history", got)
	})

	t.Run("target replaces fragment", func(t *testing.T) {
		got := BuildRedirectURL("/products/p1#history", LinkTarget{TargetID: "notes"}, now)
		assert.Equal(t, "/products/p1?t=notes&_nt=1700000000000#notes", got)
	})

	t.Run("highlight is encoded", func(t *testing.T) {
		got := BuildRedirectURL("/x", LinkTarget{HighlightText: "hola @carol & co"}, now)
		u, err := url.Parse(got)
		require.NoError(t, err)
		assert.Equal(t, "hola @carol & co", u.Query().Get("ht"))
	})

	t.Run("highlight goes last", func(t *testing.T) {
		got := BuildRedirectURL("/x", LinkTarget{TargetID: "n1", HighlightText: "hola"}, now)
		assert.Equal(t, "/x?t=n1&_nt=1700000000000&ht=hola#n1", got)
	})

	t.Run("long highlight is shortened", func(t *testing.T) {
		got := BuildRedirectURL("/products/abc", LinkTarget{
			TargetID:      "notes",
			ProductID:     "abc",
			MentionType:   "product_note",
			HighlightText: strings.Repeat("a", 2500),
		}, now)
		assert.Len(t, got, MaxRedirectURLLength)
		assert.True(t, strings.HasSuffix(got, "#notes"))

		u, err := url.Parse(got)
		require.NoError(t, err)
		assert.Equal(t, "/products/abc", u.Path)
		assert.Equal(t, "notes", u.Fragment)
		q := u.Query()
		assert.Equal(t, "notes", q.Get("t"))
		assert.Equal(t, "abc", q.Get("p"))
		assert.Equal(t, "product_note", q.Get("mt"))
		assert.Equal(t, "1700000000000", q.Get("_nt"))
		ht := q.Get("ht")
		assert.NotEmpty(t, ht)
		assert.Less(t, len(ht), 2500)
	})

	t.Run("escapes are never split", func(t *testing.T) {
		got := BuildRedirectURL("/x", LinkTarget{HighlightText: strings.Repeat("ñ", 3000)}, now)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxRedirectURLLength)
		assert.Greater(t, utf8.RuneCountInString(got), MaxRedirectURLLength-6)
		u, err := url.Parse(got)
		require.NoError(t, err)
		ht := u.Query().Get("ht")
		assert.True(t, utf8.ValidString(ht))
		assert.Equal(t, strings.Repeat("ñ", utf8.RuneCountInString(ht)), ht)
	})
}

func TestProcessMentionsNotifiesResolvedUsers(t *testing.T) {
	f := newFixture(t)
	carol := testsupport.CreateUser(t, f.db, "carol", models.RoleUser)

	created, err := ProcessMentions(f.ctx, f.db, MentionRequest{
		Text:       "@carol please check, cc @dave and @ghost",
		SenderID:   f.user.ID,
		SenderName: f.user.Label(),
		Context: MentionContext{
			Section:     "product_note",
			RedirectURL: "/products/p1",
			Metadata:    map[string]interface{}{"productId": "p1"},
		},
	})
	require.NoError(t, err)

	// dave is the sender and ghost does not exist
	require.Len(t, created, 1)
	n := created[0]
	assert.Equal(t, carol.ID, n.UserID)
	require.NotNil(t, n.SenderID)
	assert.Equal(t, f.user.ID, *n.SenderID)
	assert.Equal(t, models.NotificationMention, n.Type)
	assert.Equal(t, `dave mentioned you: "@carol please check, cc @dave and @ghost"`, n.Message)
	assert.False(t, n.IsRead)

	link, err := url.Parse(n.RedirectURL)
	require.NoError(t, err)
	assert.Equal(t, "/products/p1", link.Path)
	assert.Equal(t, "p1", link.Query().Get("p"))
	assert.Equal(t, "product_note", link.Query().Get("mt"))
	assert.NotEmpty(t, link.Query().Get("_nt"))

	assert.Equal(t, "@carol please check, cc @dave and @ghost", n.Metadata["originalText"])
	assert.Equal(t, "product_note", n.Metadata["section"])
	assert.Equal(t, "product_note", n.Metadata["mentionType"])
	assert.Contains(t, n.Metadata, "mentionedAt")
}

func TestProcessMentionsLongTextIsNotTruncated(t *testing.T) {
	f := newFixture(t)
	carol := testsupport.CreateUser(t, f.db, "carol", models.RoleUser)
	text := "@carol " + strings.Repeat("x", 5000)

	created, err := ProcessMentions(f.ctx, f.db, MentionRequest{
		Text:       text,
		SenderID:   f.user.ID,
		SenderName: f.user.Label(),
		Context:    MentionContext{RedirectURL: "/products/p1"},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)

	var stored models.Notification
	require.NoError(t, f.db.Where("user_id = ?", carol.ID).First(&stored).Error)
	assert.Equal(t, `dave mentioned you: "`+text+`"`, stored.Message)
	assert.LessOrEqual(t, utf8.RuneCountInString(stored.RedirectURL), MaxRedirectURLLength)
}

func TestProcessMentionsSkipsInactiveAndMatchesExactly(t *testing.T) {
	f := newFixture(t)
	erin := testsupport.CreateUser(t, f.db, "erin", models.RoleUser)
	testsupport.DeactivateUser(t, f.db, erin)
	testsupport.CreateUser(t, f.db, "Frank", models.RoleUser)

	created, err := ProcessMentions(f.ctx, f.db, MentionRequest{
		Text:     "@erin @frank",
		SenderID: f.user.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestProcessMentionsExplicitList(t *testing.T) {
	f := newFixture(t)
	carol := testsupport.CreateUser(t, f.db, "carol", models.RoleUser)

	created, err := ProcessMentions(f.ctx, f.db, MentionRequest{
		Text:     "see attached",
		SenderID: f.admin.ID,
		Mentions: []string{"@carol", "dave", "carol"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	recipients := []string{created[0].UserID, created[1].UserID}
	assert.ElementsMatch(t, []string{carol.ID, f.user.ID}, recipients)
	// Sender name falls back to the stored user
	assert.True(t, strings.HasPrefix(created[0].Message, "admin mentioned you"))
}

func TestProcessMentionsWithoutMentions(t *testing.T) {
	f := newFixture(t)

	created, err := ProcessMentions(f.ctx, f.db, MentionRequest{Text: "nothing to see", SenderID: f.user.ID})
	require.NoError(t, err)
	assert.Empty(t, created)

	var count int64
	require.NoError(t, f.db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}
