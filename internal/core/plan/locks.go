package plan

// LockSet tracks locked slots and locked days. A locked day implies every
// slot within it is locked, independent of the slot set. Lock state never
// implies occupancy: an empty slot may be locked, meaning "do not touch".
type LockSet struct {
	Slots map[SlotKey]struct{}
	Days  map[int]struct{}
}

// NewLockSet returns an empty lock set.
func NewLockSet() *LockSet {
	return &LockSet{
		Slots: make(map[SlotKey]struct{}),
		Days:  make(map[int]struct{}),
	}
}

// IsDayLocked reports whether the whole day is locked.
func (l *LockSet) IsDayLocked(dayIndex int) bool {
	_, ok := l.Days[dayIndex]
	return ok
}

// IsSlotLocked reports whether the slot is locked, either explicitly or
// through its day.
func (l *LockSet) IsSlotLocked(key SlotKey) bool {
	if l.IsDayLocked(key.Day) {
		return true
	}
	_, ok := l.Slots[key]
	return ok
}

// ToggleSlot flips the explicit lock on a single slot.
func (l *LockSet) ToggleSlot(key SlotKey) {
	if _, ok := l.Slots[key]; ok {
		delete(l.Slots, key)
		return
	}
	l.Slots[key] = struct{}{}
}

// ToggleDay flips the lock on a whole day.
func (l *LockSet) ToggleDay(dayIndex int) {
	if _, ok := l.Days[dayIndex]; ok {
		delete(l.Days, dayIndex)
		return
	}
	l.Days[dayIndex] = struct{}{}
}

// UnlockAll clears both lock sets unconditionally.
func (l *LockSet) UnlockAll() {
	l.Slots = make(map[SlotKey]struct{})
	l.Days = make(map[int]struct{})
}

// PurgeBeyond removes every lock referencing a day index at or past dayCount.
func (l *LockSet) PurgeBeyond(dayCount int) {
	for key := range l.Slots {
		if key.Day >= dayCount {
			delete(l.Slots, key)
		}
	}
	for day := range l.Days {
		if day >= dayCount {
			delete(l.Days, day)
		}
	}
}

// PurgeMeal removes slot locks scoped to one day and meal. Locks cannot
// protect a meal that has been turned off.
func (l *LockSet) PurgeMeal(dayIndex int, meal Meal) {
	for key := range l.Slots {
		if key.Day == dayIndex && key.Meal == meal {
			delete(l.Slots, key)
		}
	}
}

// Clone returns a deep copy of the lock set.
func (l *LockSet) Clone() *LockSet {
	out := NewLockSet()
	for key := range l.Slots {
		out.Slots[key] = struct{}{}
	}
	for day := range l.Days {
		out.Days[day] = struct{}{}
	}
	return out
}
