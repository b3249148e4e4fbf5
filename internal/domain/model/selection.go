package model

import "sort"

// Selection множество номеров вариантов ответа (нумерация с 1)
type Selection map[int]struct{}

// NewSelection собирает множество из номеров, повторы схлопываются
func NewSelection(positions ...int) Selection {
	s := make(Selection, len(positions))
	for _, p := range positions {
		s[p] = struct{}{}
	}
	return s
}

func (s Selection) Has(position int) bool {
	_, ok := s[position]
	return ok
}

// Toggle добавляет номер, если его нет, и убирает, если он уже выбран
func (s Selection) Toggle(position int) {
	if s.Has(position) {
		delete(s, position)
		return
	}
	s[position] = struct{}{}
}

func (s Selection) Clone() Selection {
	c := make(Selection, len(s))
	for p := range s {
		c[p] = struct{}{}
	}
	return c
}

// Equal сравнивает множества поэлементно. nil и пустое множество равны.
func (s Selection) Equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if !other.Has(p) {
			return false
		}
	}
	return true
}

// Sorted возвращает номера по возрастанию
func (s Selection) Sorted() []int {
	out := make([]int, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
