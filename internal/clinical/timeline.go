package clinical

import (
	"fmt"
	"sort"
	"time"

	"ward-rounds/internal/models"
)

type TimelineKind string

const (
	EventDeviceInserted    TimelineKind = "device_inserted"
	EventDeviceRemoved     TimelineKind = "device_removed"
	EventMedicationStarted TimelineKind = "medication_started"
	EventMedicationEnded   TimelineKind = "medication_ended"
	EventExamPerformed     TimelineKind = "exam_performed"
	EventSurgeryPerformed  TimelineKind = "surgery_performed"
	EventCapdEvaluated     TimelineKind = "capd_evaluated"
	EventAlertCreated      TimelineKind = "alert_created"
)

// TimelineEntry is one dated event in a patient's history.
// HasTime is false for date-only sources, whose timestamp is local midnight.
type TimelineEntry struct {
	Kind        TimelineKind `json:"kind"`
	Timestamp   time.Time    `json:"timestamp"`
	HasTime     bool         `json:"has_time"`
	Description string       `json:"description"`
	SourceID    uint         `json:"source_id"`
}

// TimelineGroup holds the entries that fall on one local calendar date.
type TimelineGroup struct {
	Date    string          `json:"date"`
	Entries []TimelineEntry `json:"entries"`
}

// BuildTimeline merges the patient's records and alert tasks into groups ordered newest first.
// Tasks of other patients and tasks not in alerta are ignored. Archived records still contribute.
func BuildTimeline(patient models.Patient, tasks []models.Task, loc *time.Location) ([]TimelineGroup, error) {
	if loc == nil {
		loc = time.Local
	}

	var entries []TimelineEntry
	addDate := func(kind TimelineKind, field, date string, id uint, description string) error {
		ts, err := ParseDate(field, date, loc)
		if err != nil {
			return err
		}
		entries = append(entries, TimelineEntry{Kind: kind, Timestamp: ts, Description: description, SourceID: id})
		return nil
	}

	for _, d := range patient.Devices {
		if err := addDate(EventDeviceInserted, "start_date", d.StartDate, d.ID,
			fmt.Sprintf("Dispositivo Inserido: %s em %s.", d.Name, d.Location)); err != nil {
			return nil, err
		}
		if d.RemovalDate != nil {
			if err := addDate(EventDeviceRemoved, "removal_date", *d.RemovalDate, d.ID,
				fmt.Sprintf("Dispositivo Retirado: %s.", d.Name)); err != nil {
				return nil, err
			}
		}
	}

	for _, m := range patient.Medications {
		if err := addDate(EventMedicationStarted, "start_date", m.StartDate, m.ID,
			fmt.Sprintf("Início Medicação: %s (%s).", m.Name, m.Dosage)); err != nil {
			return nil, err
		}
		if m.EndDate != nil {
			if err := addDate(EventMedicationEnded, "end_date", *m.EndDate, m.ID,
				fmt.Sprintf("Fim Medicação: %s.", m.Name)); err != nil {
				return nil, err
			}
		}
	}

	for _, e := range patient.Exams {
		if err := addDate(EventExamPerformed, "date", e.Date, e.ID,
			fmt.Sprintf("Exame Realizado: %s - Resultado: %s.", e.Name, e.Result)); err != nil {
			return nil, err
		}
	}

	for _, s := range patient.Surgeries {
		if err := addDate(EventSurgeryPerformed, "date", s.Date, s.ID,
			fmt.Sprintf("Cirurgia Realizada: %s por %s.", s.Name, s.Surgeon)); err != nil {
			return nil, err
		}
	}

	for _, c := range patient.CapdScales {
		entries = append(entries, TimelineEntry{
			Kind:        EventCapdEvaluated,
			Timestamp:   c.EvaluatedAt.In(loc),
			HasTime:     true,
			Description: fmt.Sprintf("Avaliação CAP-D realizada: Pontuação %d.", c.Score),
			SourceID:    c.ID,
		})
	}

	for _, t := range tasks {
		if t.PatientID != patient.ID || t.Status != models.TaskStatusAlert {
			continue
		}
		entries = append(entries, TimelineEntry{
			Kind:        EventAlertCreated,
			Timestamp:   t.Deadline.In(loc),
			HasTime:     true,
			Description: fmt.Sprintf("Alerta Criado: %s.", t.Description),
			SourceID:    t.ID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	groups := []TimelineGroup{}
	for _, entry := range entries {
		key := DayKey(entry.Timestamp, loc)
		if n := len(groups); n > 0 && groups[n-1].Date == key {
			groups[n-1].Entries = append(groups[n-1].Entries, entry)
			continue
		}
		groups = append(groups, TimelineGroup{Date: key, Entries: []TimelineEntry{entry}})
	}
	return groups, nil
}
