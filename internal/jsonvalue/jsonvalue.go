// Package jsonvalue turns response bytes into a parsed JSON value tree and
// projects Telegram Bot API shapes out of it.
package jsonvalue

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrNotObject, ErrMissingField, and ErrAPIError are the structural
// mismatches AsUser/AsUpdateList can report.
var (
	ErrNotObject    = errors.New("jsonvalue: value is not an object")
	ErrMissingField = errors.New("jsonvalue: missing required field")
	ErrAPIError     = errors.New("jsonvalue: telegram API returned ok=false")
)

// Parse parses src into a tagged JSON value tree. The returned value is
// opaque to callers outside this package (task.JSONValue is a plain `any`
// alias) and is only ever re-entered through AsUser/AsUpdateList.
func Parse(src []byte) (any, error) {
	if !gjson.ValidBytes(src) {
		return nil, fmt.Errorf("jsonvalue: invalid json")
	}
	root := gjson.ParseBytes(src)
	return root, nil
}

func asResult(v any) (gjson.Result, error) {
	r, ok := v.(gjson.Result)
	if !ok {
		return gjson.Result{}, fmt.Errorf("jsonvalue: value is not a parsed JSON tree")
	}
	return r, nil
}

// User is the projection GetTgUser needs out of a getMe response.
type User struct {
	ID        int64
	IsBot     bool
	FirstName string
	Username  string
}

// AsUser projects a getMe response into a User: if ok is true, reads
// result.first_name (and the rest of the user shape); if false, returns
// ErrAPIError with the API's description surfaced.
func AsUser(root any) (User, error) {
	r, err := asResult(root)
	if err != nil {
		return User{}, err
	}
	if !r.IsObject() {
		return User{}, ErrNotObject
	}
	okField := r.Get("ok")
	if !okField.Exists() {
		return User{}, fmt.Errorf("%w: ok", ErrMissingField)
	}
	if !okField.Bool() {
		desc := r.Get("description").String()
		return User{}, fmt.Errorf("%w: %s", ErrAPIError, desc)
	}
	result := r.Get("result")
	if !result.Exists() || !result.IsObject() {
		return User{}, fmt.Errorf("%w: result", ErrMissingField)
	}
	firstName := result.Get("first_name")
	if !firstName.Exists() {
		return User{}, fmt.Errorf("%w: result.first_name", ErrMissingField)
	}
	return User{
		ID:        result.Get("id").Int(),
		IsBot:     result.Get("is_bot").Bool(),
		FirstName: firstName.String(),
		Username:  result.Get("username").String(),
	}, nil
}

// Message is a decoded Telegram message: id, chat, sender, and text.
type Message struct {
	MessageID int64
	ChatID    int64
	FromID    int64
	Text      string
}

// Update pairs an update_id with its optional Message payload.
type Update struct {
	UpdateID int64
	Message  *Message
}

// AsUpdateList projects a getUpdates response's result array into a slice
// of Update, decoding each element in turn.
func AsUpdateList(root any) ([]Update, error) {
	r, err := asResult(root)
	if err != nil {
		return nil, err
	}
	if !r.IsObject() {
		return nil, ErrNotObject
	}
	okField := r.Get("ok")
	if !okField.Exists() {
		return nil, fmt.Errorf("%w: ok", ErrMissingField)
	}
	if !okField.Bool() {
		desc := r.Get("description").String()
		return nil, fmt.Errorf("%w: %s", ErrAPIError, desc)
	}
	result := r.Get("result")
	if !result.Exists() || !result.IsArray() {
		return nil, fmt.Errorf("%w: result", ErrMissingField)
	}

	var updates []Update
	var decodeErr error
	result.ForEach(func(_, elem gjson.Result) bool {
		u, err := asUpdate(elem)
		if err != nil {
			decodeErr = err
			return false
		}
		updates = append(updates, u)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return updates, nil
}

func asUpdate(v gjson.Result) (Update, error) {
	if !v.IsObject() {
		return Update{}, ErrNotObject
	}
	idField := v.Get("update_id")
	if !idField.Exists() {
		return Update{}, fmt.Errorf("%w: update_id", ErrMissingField)
	}
	u := Update{UpdateID: idField.Int()}

	msg := v.Get("message")
	if msg.Exists() && msg.IsObject() {
		m := &Message{
			MessageID: msg.Get("message_id").Int(),
			ChatID:    msg.Get("chat.id").Int(),
			FromID:    msg.Get("from.id").Int(),
			Text:      msg.Get("text").String(),
		}
		u.Message = m
	}
	return u, nil
}
