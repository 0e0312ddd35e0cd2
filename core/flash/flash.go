// Package flash implements read-once messages kept in the session between
// a redirect and the next page.
package flash

// Messages queues messages by kind ("error", "info", ...).
// The zero value is ready to use.
type Messages map[string][]string

// Add appends msg to the queue of kind.
func (m *Messages) Add(kind, msg string) {
	if *m == nil {
		*m = make(Messages)
	}
	(*m)[kind] = append((*m)[kind], msg)
}

// Take drains and returns the queue of kind. A second call returns nil.
func (m *Messages) Take(kind string) []string {
	if *m == nil {
		return nil
	}
	msgs, ok := (*m)[kind]
	if !ok {
		return nil
	}
	delete(*m, kind)
	return msgs
}

// First drains the queue of kind and returns its first message, or "".
func (m *Messages) First(kind string) string {
	msgs := m.Take(kind)
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

// Len returns the number of queued messages of every kind.
func (m Messages) Len() int {
	n := 0
	for _, msgs := range m {
		n += len(msgs)
	}
	return n
}
