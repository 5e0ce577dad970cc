package rentledger

import (
	"github.com/rentlabs/rentledger/schema"
)

// AppendMessage appends an administrator broadcast and notifies the event
// sink. Admin only.
func (l *Ledger) AppendMessage(text, caller string, now int64) error {
	if err := l.isAdmin(caller); err != nil {
		return err
	}

	l.locker.Lock()
	defer l.locker.Unlock()

	cnt, err := l.store.LoadMessageCount()
	if err != nil {
		return err
	}
	msg := schema.Message{
		DateTime: now,
		Text:     text,
	}
	if err := l.store.SaveMessage(cnt, msg); err != nil {
		return err
	}

	l.notifyStatusMessage(msg)
	return nil
}

// Messages is readable by anyone, asymmetric with the admin-only append.
func (l *Ledger) Messages() ([]schema.Message, error) {
	return l.store.LoadAllMessages()
}
