package picolog

import "time"

// Data records an application measurement on the CSV data channel as a
// "time,name,value" line. The channel is lossy: when its buffer is full
// the oldest measurement is dropped to admit the new one.
func (l *Logger) Data(name string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		l.noteNotReady()
		l.state.DroppedData.Add(1)
		return
	}
	if !l.cfg.EnableFile {
		l.state.DroppedData.Add(1)
		return
	}

	now := time.Now()
	line := l.ser.serializeData(now, name, value)
	rec := record{
		ts:      now,
		tag:     name,
		encoded: append([]byte(nil), line...),
		size:    estimateSize(line),
	}

	if l.dataRing.isFull() {
		l.dataRing.evictOldest()
		l.state.DroppedData.Add(1)
	}
	l.dataRing.push(rec)

	if l.dataRing.isFull() {
		if err := l.flushData(); err != nil {
			l.internalLog("data flush failed: %v\n", err)
		}
	}
}

// flushData drains the data ring into its store as one write call.
// Caller holds mu.
func (l *Logger) flushData() error {
	if l.dataStore == nil || l.dataRing == nil || l.dataRing.isEmpty() {
		return nil
	}

	batch := l.dataRing.drain(l.dataScratch[:0])
	l.dataScratch = batch[:0]

	written, err := l.dataStore.write(batch)
	if err != nil {
		l.state.FailedWrites.Add(1)
		for _, rec := range batch[written:] {
			if !l.dataRing.push(rec) {
				l.state.DroppedData.Add(1)
			}
		}
		return err
	}

	l.state.TotalFlushes.Add(1)
	return nil
}
