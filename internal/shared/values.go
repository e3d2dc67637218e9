package shared

import "encoding/json"

// Typed access to session values. Values are stored as JSON strings except
// for values that already are strings, which are written verbatim so that
// legacy plain-string entries stay readable.

// Get returns the decoded value stored under key. When nothing is stored yet
// the default is written back and returned, so a first read seeds storage.
// A stored value that does not decode as JSON is returned as-is when the
// caller asked for a string, and falls back to the default otherwise.
func Get[T any](sess *Session, key string, def T) T {
	if sess == nil {
		return def
	}
	raw, ok := sess.GetRaw(key)
	if !ok {
		Set(sess, key, def)
		return def
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		if v, ok := any(raw).(T); ok {
			return v
		}
		return def
	}
	return out
}

// Set encodes and stores value under key.
func Set[T any](sess *Session, key string, value T) {
	if sess == nil {
		return
	}
	if s, ok := any(value).(string); ok {
		sess.SetRaw(key, s)
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	sess.SetRaw(key, string(data))
}

// Peek decodes the value stored under key without seeding a default. Used
// on hot read paths that must not dirty the session.
func Peek[T any](sess *Session, key string, def T) T {
	if sess == nil {
		return def
	}
	raw, ok := sess.GetRaw(key)
	if !ok {
		return def
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		if v, ok := any(raw).(T); ok {
			return v
		}
		return def
	}
	return out
}

// Update applies fn to the current value (seeding def when absent) and
// stores the result, returning it.
func Update[T any](sess *Session, key string, def T, fn func(T) T) T {
	cur := Get(sess, key, def)
	next := fn(cur)
	Set(sess, key, next)
	return next
}

// Remove deletes the value stored under key.
func Remove(sess *Session, key string) {
	if sess == nil {
		return
	}
	sess.Delete(key)
}
