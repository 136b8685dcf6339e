package voxbody

// Bodies whose squared speed drops below this skip simulation work.
const sleepSpeedSqr = 0.1

func (b *RigidBody) IsSleeping() bool { return b.sleeping }

// Wake clears the sleep flag. The next step re-evaluates it from the speed, so
// a body that is woken without gaining speed falls asleep again.
func (b *RigidBody) Wake() {
	b.sleeping = false
}

// NotifyTerrainModified forces the next step to run in full even if the body
// is at rest, so it can react to terrain removed from under it.
func (b *RigidBody) NotifyTerrainModified() {
	b.overrideSleep = true
}

// SleepOverridden reports whether a one-shot wake is pending.
func (b *RigidBody) SleepOverridden() bool { return b.overrideSleep }

func (b *RigidBody) belowSleepSpeed() bool {
	return b.velocity.LenSqr() < sleepSpeedSqr
}

// beginStep updates the sleep state and reports whether this step should run.
// A pending override is consumed here.
func (b *RigidBody) beginStep() bool {
	b.sleeping = b.belowSleepSpeed()
	if !b.sleeping {
		b.overrideSleep = false
		return true
	}
	if b.overrideSleep {
		b.overrideSleep = false
		return true
	}
	return false
}
