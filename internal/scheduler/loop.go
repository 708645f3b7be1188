package scheduler

import "time"

// Start begins the periodic tick loop. The first tick fires immediately
// so events that came due during downtime are caught up, then the loop
// aligns itself once to the top of the wall-clock minute and ticks every
// 60 seconds from there. There is only ever one live timer, so ticks
// cannot overlap.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopCh != nil {
		return
	}
	m.stopCh = make(chan struct{})

	go m.run(m.stopCh)
}

// Stop cancels the pending timer synchronously. A tick already in flight
// is allowed to complete.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopCh == nil {
		return
	}
	close(m.stopCh)
	m.stopCh = nil
}

func (m *Manager) run(stop chan struct{}) {
	m.Tick(time.Now().UTC())

	topOfMinute := time.Duration(60000-(time.Now().UnixMilli()%60000)) * time.Millisecond
	timer := time.NewTimer(topOfMinute)
	select {
	case <-timer.C:
	case <-stop:
		timer.Stop()
		return
	}

	m.Tick(time.Now().UTC())

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			m.Tick(now.UTC())
		case <-stop:
			return
		}
	}
}
