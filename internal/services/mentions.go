// mentions.go
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
	"context"
	"fmt"
	"maps"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/localnerve/inventario/internal/logging"
	"github.com/localnerve/inventario/internal/models"
	"gorm.io/gorm"
)

// MaxRedirectURLLength caps notification links; longer links are cut.
const MaxRedirectURLLength = 2000

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// MentionContext says where a mention was written and where its link points.
type MentionContext struct {
	Section     string                 `json:"section"`
	RedirectURL string                 `json:"redirectUrl"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// MentionRequest is the input to ProcessMentions. Mentions lists extra
// usernames picked explicitly by the client.
type MentionRequest struct {
	Text       string
	SenderID   string
	SenderName string
	Mentions   []string
	Context    MentionContext
}

// LinkTarget holds the values encoded into a notification link.
type LinkTarget struct {
	TargetID      string
	ProductID     string
	MentionType   string
	HighlightText string
}

// ParseMentions returns the distinct @username tokens of text, without the
// @, in the order they first appear.
func ParseMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	usernames := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		usernames = append(usernames, m[1])
	}
	return usernames
}

// mergeMentions appends the explicit usernames not already found in the text.
func mergeMentions(parsed, explicit []string) []string {
	seen := make(map[string]struct{}, len(parsed)+len(explicit))
	for _, name := range parsed {
		seen[name] = struct{}{}
	}
	out := parsed
	for _, name := range explicit {
		name = strings.TrimPrefix(strings.TrimSpace(name), "@")
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// BuildRedirectURL appends the link target to base as query parameters t, p
// and mt (each only when set), then _nt, a millisecond timestamp that defeats
// caching, then ht. The fragment becomes the target id, or keeps base's own
// fragment. Links are capped at MaxRedirectURLLength characters by shortening
// ht only, so the target and fragment always survive.
func BuildRedirectURL(base string, target LinkTarget, now time.Time) string {
	if base == "" {
		base = "/"
	}

	path, fragment := base, ""
	if i := strings.Index(base, "#"); i >= 0 {
		path, fragment = base[:i], base[i+1:]
	}
	if target.TargetID != "" {
		fragment = target.TargetID
	}

	params := make([]string, 0, 4)
	add := func(key, value string) {
		if value != "" {
			params = append(params, key+"="+url.QueryEscape(value))
		}
	}
	add("t", target.TargetID)
	add("p", target.ProductID)
	add("mt", target.MentionType)
	add("_nt", strconv.FormatInt(now.UnixMilli(), 10))

	var b strings.Builder
	b.WriteString(path)
	switch {
	case !strings.Contains(path, "?"):
		b.WriteByte('?')
	case !strings.HasSuffix(path, "?") && !strings.HasSuffix(path, "&"):
		b.WriteByte('&')
	}
	b.WriteString(strings.Join(params, "&"))

	tail := ""
	if fragment != "" {
		tail = "#" + fragment
	}

	if target.HighlightText != "" {
		budget := MaxRedirectURLLength - utf8.RuneCountInString(b.String()) -
			utf8.RuneCountInString(tail) - len("&ht=")
		if ht := escapeWithin(target.HighlightText, budget); ht != "" {
			b.WriteString("&ht=")
			b.WriteString(ht)
		}
	}
	b.WriteString(tail)

	return truncateRunes(b.String(), MaxRedirectURLLength)
}

// escapeWithin query-escapes s, dropping trailing characters until the
// escaped form is at most limit bytes long.
func escapeWithin(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	escaped := url.QueryEscape(s)
	if len(escaped) <= limit {
		return escaped
	}
	var b strings.Builder
	for _, r := range s {
		enc := url.QueryEscape(string(r))
		if b.Len()+len(enc) > limit {
			break
		}
		b.WriteString(enc)
	}
	return b.String()
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func metadataString(meta map[string]interface{}, key string) string {
	if meta == nil {
		return ""
	}
	switch v := meta[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// ProcessMentions notifies every existing user mentioned in req.Text or
// listed in req.Mentions, except the sender. Usernames match exactly. Each
// call creates new notifications; nothing is deduplicated across calls.
func ProcessMentions(ctx context.Context, db *gorm.DB, req MentionRequest) ([]models.Notification, error) {
	created := []models.Notification{}

	candidates := mergeMentions(ParseMentions(req.Text), req.Mentions)
	if len(candidates) == 0 {
		return created, nil
	}

	var users []models.User
	if err := db.WithContext(ctx).
		Where("username IN ?", candidates).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve mentioned users: %w", err)
	}

	// Some collations compare case-insensitively, so filter again here.
	byUsername := make(map[string]models.User, len(users))
	for _, u := range users {
		byUsername[u.Username] = u
	}

	senderName := req.SenderName
	if senderName == "" {
		senderName = lookupSenderName(ctx, db, req.SenderID)
	}

	now := time.Now().UTC()
	meta := maps.Clone(req.Context.Metadata)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["originalText"] = req.Text
	if metadataString(meta, "highlightText") == "" {
		meta["highlightText"] = req.Text
	}
	if metadataString(meta, "mentionType") == "" && req.Context.Section != "" {
		meta["mentionType"] = req.Context.Section
	}
	if req.Context.Section != "" {
		meta["section"] = req.Context.Section
	}
	meta["mentionedAt"] = now.Format(time.RFC3339)

	link := BuildRedirectURL(req.Context.RedirectURL, LinkTarget{
		TargetID:      metadataString(meta, "targetId"),
		ProductID:     metadataString(meta, "productId"),
		MentionType:   metadataString(meta, "mentionType"),
		HighlightText: metadataString(meta, "highlightText"),
	}, now)

	message := senderName + " mentioned you: \"" + req.Text + "\""

	for _, username := range candidates {
		recipient, ok := byUsername[username]
		if !ok || !recipient.Active {
			continue
		}
		if recipient.ID == req.SenderID {
			continue
		}

		notification, err := CreateNotification(ctx, db, NotificationInput{
			RecipientID: recipient.ID,
			SenderID:    req.SenderID,
			Type:        models.NotificationMention,
			Message:     message,
			RedirectURL: link,
			Metadata:    meta,
		})
		if err != nil {
			logging.Error(ctx).
				Err(err).
				Str("recipient", username).
				Msg("failed to create mention notification")
			continue
		}
		created = append(created, *notification)
	}

	return created, nil
}

func lookupSenderName(ctx context.Context, db *gorm.DB, senderID string) string {
	if senderID == "" {
		return systemActorName
	}
	var sender models.User
	if err := db.WithContext(ctx).Where("id = ?", senderID).First(&sender).Error; err != nil {
		return "Someone"
	}
	return sender.Label()
}
