// Package contact implements the contact form inbox stored in the
// "messages" collection.
package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Paris on hosts without zoneinfo

	"github.com/cvfolio/cvfolio/pkg/logging"
	"github.com/cvfolio/cvfolio/pkg/nlp"
	"github.com/cvfolio/cvfolio/pkg/recordstore"
	"github.com/cvfolio/cvfolio/pkg/validation"
)

const (
	Collection = "messages"

	displayLayout = "02/01/2006 15:04:05"
)

type Service struct {
	store *recordstore.Store
	log   logging.Logger
	now   func() time.Time
	loc   *time.Location
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(store *recordstore.Store, opts ...Option) *Service {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		loc = time.FixedZone("CET", 3600)
	}
	s := &Service{store: store, log: logging.Nop(), now: time.Now, loc: loc}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var messages = validation.Messages{
	"nom":            "Le nom est requis",
	"email.required": "L'email est requis",
	"email.email":    "L'email n'est pas valide",
	"sujet":          "Le sujet est requis",
	"message":        "Le message est requis",
}

// Validate checks required fields and the email format on the trimmed input.
func Validate(in NewMessage) error {
	return validation.Struct(in.trimmed(), messages)
}

func (in NewMessage) trimmed() NewMessage {
	return NewMessage{
		Nom:       strings.TrimSpace(in.Nom),
		Prenom:    strings.TrimSpace(in.Prenom),
		Email:     strings.TrimSpace(in.Email),
		Telephone: strings.TrimSpace(in.Telephone),
		Sujet:     strings.TrimSpace(in.Sujet),
		Message:   strings.TrimSpace(in.Message),
	}
}

// Create stores a new unread message. Its category is derived from the
// subject here and never recomputed.
func (s *Service) Create(ctx context.Context, in NewMessage) (Message, error) {
	if err := Validate(in); err != nil {
		return Message{}, err
	}
	now := s.now()
	msg := Message{
		Nom:         strings.TrimSpace(in.Nom),
		Prenom:      strings.TrimSpace(in.Prenom),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Telephone:   strings.TrimSpace(in.Telephone),
		Sujet:       strings.TrimSpace(in.Sujet),
		Message:     strings.TrimSpace(in.Message),
		Date:        now.UTC().Format(time.RFC3339),
		DateLisible: now.In(s.loc).Format(displayLayout),
		Categorie:   Categorize(in.Sujet),
	}
	rec, err := recordstore.Encode(msg)
	if err != nil {
		return Message{}, err
	}
	delete(rec, "id")
	stored, err := s.store.Add(ctx, Collection, rec)
	if err != nil {
		return Message{}, err
	}
	var out Message
	if err := recordstore.Decode(stored, &out); err != nil {
		return Message{}, err
	}
	s.log.Info(ctx, "contact message received", "id", out.ID, "categorie", out.Categorie)
	return out, nil
}

// List returns every message, newest first.
func (s *Service) List(ctx context.Context) ([]Message, error) {
	return s.filter(ctx, func(Message) bool { return true })
}

func (s *Service) Get(ctx context.Context, id int) (Message, error) {
	rec, err := s.store.FindByID(ctx, Collection, id)
	if err != nil {
		return Message{}, err
	}
	if rec == nil {
		return Message{}, ErrNotFound
	}
	return decode(rec)
}

// Unread returns messages neither read nor archived.
func (s *Service) Unread(ctx context.Context) ([]Message, error) {
	return s.filter(ctx, func(m Message) bool { return !m.Lu && !m.Archive })
}

func (s *Service) Archived(ctx context.Context) ([]Message, error) {
	return s.filter(ctx, func(m Message) bool { return m.Archive })
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]Message, error) {
	category = nlp.Fold(strings.TrimSpace(category))
	return s.filter(ctx, func(m Message) bool { return m.Categorie == category })
}

// Search matches q against the sender, subject and body, ignoring case and accents.
func (s *Service) Search(ctx context.Context, q string) ([]Message, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, validation.Field("q", "Paramètre q requis")
	}
	return s.filter(ctx, func(m Message) bool {
		for _, field := range []string{m.Nom, m.Prenom, m.Email, m.Sujet, m.Message} {
			if nlp.ContainsFold(field, q) {
				return true
			}
		}
		return false
	})
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(all), ParCategorie: map[string]int{}}
	for _, c := range Categories() {
		st.ParCategorie[c] = 0
	}
	for _, m := range all {
		if m.Lu {
			st.Lus++
		} else {
			st.NonLus++
		}
		if m.Important {
			st.Importants++
		}
		if m.Repondu {
			st.Repondus++
		}
		if m.Archive {
			st.Archives++
		}
		st.ParCategorie[m.Categorie]++
	}
	return st, nil
}

func (s *Service) MarkRead(ctx context.Context, id int) (Message, error) {
	return s.patch(ctx, id, recordstore.Record{"lu": true})
}

func (s *Service) MarkUnread(ctx context.Context, id int) (Message, error) {
	return s.patch(ctx, id, recordstore.Record{"lu": false})
}

func (s *Service) SetImportant(ctx context.Context, id int, important bool) (Message, error) {
	return s.patch(ctx, id, recordstore.Record{"important": important})
}

// MarkAnswered flags the message as answered and records the optional reply.
func (s *Service) MarkAnswered(ctx context.Context, id int, reponse string) (Message, error) {
	patch := recordstore.Record{
		"repondu":     true,
		"lu":          true,
		"dateReponse": s.now().UTC().Format(time.RFC3339),
	}
	if r := strings.TrimSpace(reponse); r != "" {
		patch["reponse"] = r
	}
	return s.patch(ctx, id, patch)
}

func (s *Service) Archive(ctx context.Context, id int) (Message, error) {
	return s.patch(ctx, id, recordstore.Record{"archive": true})
}

// Delete removes one message and returns it.
func (s *Service) Delete(ctx context.Context, id int) (Message, error) {
	rec, err := s.store.Delete(ctx, Collection, id)
	if err != nil {
		return Message{}, err
	}
	if rec == nil {
		return Message{}, ErrNotFound
	}
	return decode(rec)
}

// DeleteMany removes all listed messages in a single write and reports how
// many existed.
func (s *Service) DeleteMany(ctx context.Context, ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, validation.Field("ids", "Aucun identifiant fourni")
	}
	drop := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	removed := 0
	err := s.store.Mutate(ctx, Collection, []recordstore.Record{}, func(raw json.RawMessage) (any, error) {
		var records []recordstore.Record
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", recordstore.ErrCorrupt, Collection, err)
		}
		kept := make([]recordstore.Record, 0, len(records))
		for _, r := range records {
			if id, ok := r.ID(); ok {
				if _, hit := drop[id]; hit {
					removed++
					continue
				}
			}
			kept = append(kept, r)
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *Service) patch(ctx context.Context, id int, patch recordstore.Record) (Message, error) {
	rec, err := s.store.Update(ctx, Collection, id, patch)
	if err != nil {
		return Message{}, err
	}
	if rec == nil {
		return Message{}, ErrNotFound
	}
	return decode(rec)
}

func (s *Service) filter(ctx context.Context, keep func(Message) bool) ([]Message, error) {
	records, err := s.store.Search(ctx, Collection, func(r recordstore.Record) bool {
		var m Message
		return recordstore.Decode(r, &m) == nil && keep(m)
	})
	if err != nil {
		return nil, err
	}
	msgs, err := recordstore.DecodeAll[Message](records)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].Date != msgs[j].Date {
			return msgs[i].Date > msgs[j].Date
		}
		return msgs[i].ID > msgs[j].ID
	})
	return msgs, nil
}

func decode(rec recordstore.Record) (Message, error) {
	var m Message
	if err := recordstore.Decode(rec, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}
