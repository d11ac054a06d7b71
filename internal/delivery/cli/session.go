// Package cli is the presentational layer: an interactive session that
// renders snapshots of the core components and forwards user actions into
// them. It owns no booking logic of its own.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"clinic-booking-client/internal/api"
	"clinic-booking-client/internal/booking"
	"clinic-booking-client/internal/calendar"
	"clinic-booking-client/internal/converter"
	"clinic-booking-client/internal/delivery/dto"
	"clinic-booking-client/internal/directory"
	"clinic-booking-client/internal/domain/entity"
	"clinic-booking-client/internal/notify"
	"clinic-booking-client/internal/slots"
	"clinic-booking-client/pkg/render"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const helpText = `commands:
  doctors                          list the doctor directory
  refresh                          re-fetch the doctor directory
  select <doctor-id>               pick a doctor and load their open slots
  slots                            show the selected doctor's open slots
  book <slot-id> <name> [email]    submit a booking against an open slot
  ticket                           show the ticket of the last booking
  export <file>                    write the ticket as an .ics calendar file
  notices                          show active notifications
  dismiss <notice-id>              dismiss one notification
  admin add-doctor <name> [spec]   create a doctor
  admin add-slot <doctor-id> <start RFC3339> <minutes>
  admin slots <doctor-id>          list all slots of a doctor
  admin stats                      show aggregate counts
  help                             this text
  quit                             leave`

// Session drives one interactive run of the client.
type Session struct {
	log       *logrus.Logger
	apiClient *api.Client
	directory *directory.Cache
	slotQuery *slots.Query
	machine   *booking.Machine
	notices   *notify.Queue

	in  io.Reader
	out io.Writer

	// Optional booking form prefill from configuration.
	prefillName  string
	prefillEmail string

	// Context for the ticket view: the doctor and slot the last booking
	// attempt was made against. Presentation only.
	bookedSlot   *entity.AppointmentSlot
	bookedDoctor *entity.Doctor
}

func NewSession(
	apiClient *api.Client,
	cache *directory.Cache,
	slotQuery *slots.Query,
	machine *booking.Machine,
	notices *notify.Queue,
	in io.Reader,
	out io.Writer,
	log *logrus.Logger,
) *Session {
	return &Session{
		log:       log,
		apiClient: apiClient,
		directory: cache,
		slotQuery: slotQuery,
		machine:   machine,
		notices:   notices,
		in:        in,
		out:       out,
	}
}

// WithPrefill sets default patient details used when the book command is
// given only a slot id.
func (s *Session) WithPrefill(name, email string) *Session {
	s.prefillName = name
	s.prefillEmail = email
	return s
}

// Run reads commands until quit, EOF or context cancellation.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "clinic booking client — type 'help' for commands")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			fmt.Fprintln(s.out, helpText)
		case "doctors":
			s.showDoctors()
		case "refresh":
			s.refreshDoctors(ctx)
		case "select":
			s.selectDoctor(ctx, args[1:])
		case "slots":
			s.showSlots()
		case "book":
			s.book(ctx, args[1:])
		case "ticket":
			s.showTicket()
		case "export":
			s.export(args[1:])
		case "notices":
			s.showNotices()
		case "dismiss":
			s.dismiss(args[1:])
		case "admin":
			s.admin(ctx, args[1:])
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(s.out, "unknown command %q, try 'help'\n", args[0])
		}
	}
}

func (s *Session) showDoctors() {
	snap := s.directory.Snapshot()
	if snap.Loading {
		fmt.Fprintln(s.out, "loading doctors...")
		return
	}
	if snap.Err != nil {
		render.Errorf(s.out, "could not load doctors: %v", snap.Err)
	}
	if len(snap.Doctors) == 0 {
		fmt.Fprintln(s.out, "no doctors available")
		return
	}
	rows := make([][]string, 0, len(snap.Doctors))
	for _, d := range snap.Doctors {
		rows = append(rows, []string{
			strconv.FormatInt(d.ID, 10),
			d.Name,
			d.Specialization,
		})
	}
	render.Table(s.out, []string{"ID", "NAME", "SPECIALIZATION"}, rows)
}

func (s *Session) refreshDoctors(ctx context.Context) {
	if _, err := s.directory.Refresh(ctx); err != nil {
		s.notices.Error("could not refresh the doctor list")
		render.Errorf(s.out, "refresh failed: %v", err)
		return
	}
	s.showDoctors()
}

func (s *Session) selectDoctor(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: select <doctor-id>")
		return
	}
	doctorID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		render.Errorf(s.out, "invalid doctor id %q", args[0])
		return
	}
	s.slotQuery.Select(ctx, doctorID)
	fmt.Fprintf(s.out, "loading slots for doctor %d... run 'slots' to view\n", doctorID)
}

func (s *Session) showSlots() {
	snap := s.slotQuery.Snapshot()
	if snap.DoctorID == 0 {
		fmt.Fprintln(s.out, "no doctor selected, use 'select <doctor-id>'")
		return
	}
	if snap.Loading {
		fmt.Fprintln(s.out, "loading slots...")
		return
	}
	if snap.Err != nil {
		render.Errorf(s.out, "could not load slots: %v", snap.Err)
		return
	}
	if len(snap.Slots) == 0 {
		fmt.Fprintln(s.out, "no open slots for this doctor")
		return
	}
	rows := make([][]string, 0, len(snap.Slots))
	for _, slot := range snap.Slots {
		rows = append(rows, []string{
			strconv.FormatInt(slot.ID, 10),
			slot.StartTime.Format(time.RFC3339),
			fmt.Sprintf("%d min", slot.DurationMinutes),
		})
	}
	render.Table(s.out, []string{"ID", "START", "DURATION"}, rows)
}

func (s *Session) book(ctx context.Context, args []string) {
	if len(args) == 0 || (len(args) < 2 && s.prefillName == "") {
		fmt.Fprintln(s.out, "usage: book <slot-id> <name> [email]")
		return
	}
	slotID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		render.Errorf(s.out, "invalid slot id %q", args[0])
		return
	}

	slot := s.findSlot(slotID)
	if slot == nil {
		render.Errorf(s.out, "slot %d is not in the current list, run 'slots' first", slotID)
		return
	}

	req := &dto.BookSlotRequest{
		PatientName:  s.prefillName,
		PatientEmail: s.prefillEmail,
	}
	if nameParts := args[1:]; len(nameParts) > 0 {
		if last := nameParts[len(nameParts)-1]; strings.Contains(last, "@") {
			req.PatientEmail = last
			nameParts = nameParts[:len(nameParts)-1]
		}
		if len(nameParts) > 0 {
			req.PatientName = strings.Join(nameParts, " ")
		}
	}

	s.machine.Reset(slotID)
	s.bookedSlot = slot
	s.bookedDoctor = s.findDoctor(slot.DoctorID)

	if err := s.machine.Submit(ctx, req); err != nil {
		render.Errorf(s.out, "%v", err)
		return
	}
	s.showTicket()
}

func (s *Session) showTicket() {
	snap := s.machine.Snapshot()
	switch snap.Phase {
	case booking.PhaseIdle:
		fmt.Fprintln(s.out, "no booking yet")
		return
	case booking.PhaseSubmitting:
		fmt.Fprintln(s.out, "booking in progress...")
		return
	case booking.PhaseFailed:
		render.Errorf(s.out, "%s", snap.FailureMessage)
		return
	}

	view := converter.TicketToView(snap.Booking, s.bookedSlot, s.bookedDoctor)
	pairs := [][2]string{
		{"Booking", strconv.FormatInt(view.BookingID, 10)},
		{"Patient", view.PatientName},
		{"Doctor", view.DoctorName},
		{"Status", view.Status},
	}
	if view.HasSchedule {
		pairs = append(pairs,
			[2]string{"Start", view.StartTime.Format(time.RFC3339)},
			[2]string{"End", view.EndTime.Format(time.RFC3339)},
		)
	}
	render.KV(s.out, pairs)
	if snap.Booking.IsPending() {
		fmt.Fprintln(s.out, "the clinic has not confirmed this booking yet")
	}
}

func (s *Session) export(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: export <file>")
		return
	}
	snap := s.machine.Snapshot()
	if snap.Phase != booking.PhaseSucceeded {
		fmt.Fprintln(s.out, "nothing to export: no succeeded booking")
		return
	}
	payload, err := calendar.Export(snap.Booking, s.bookedSlot, s.bookedDoctor)
	if err != nil {
		render.Errorf(s.out, "export failed: %v", err)
		return
	}
	if err := os.WriteFile(args[0], payload, 0o644); err != nil {
		render.Errorf(s.out, "could not write %s: %v", args[0], err)
		return
	}
	fmt.Fprintf(s.out, "wrote %s\n", args[0])
}

func (s *Session) showNotices() {
	active := s.notices.Active()
	if len(active) == 0 {
		fmt.Fprintln(s.out, "no active notifications")
		return
	}
	rows := make([][]string, 0, len(active))
	for _, n := range active {
		rows = append(rows, []string{n.ID.String(), string(n.Severity), n.Text})
	}
	render.Table(s.out, []string{"ID", "SEVERITY", "TEXT"}, rows)
}

func (s *Session) dismiss(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: dismiss <notice-id>")
		return
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		render.Errorf(s.out, "invalid notice id %q", args[0])
		return
	}
	if !s.notices.Dismiss(id) {
		fmt.Fprintln(s.out, "no such notification")
	}
}

func (s *Session) admin(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "usage: admin add-doctor|add-slot|slots|stats ...")
		return
	}
	switch args[0] {
	case "add-doctor":
		s.adminAddDoctor(ctx, args[1:])
	case "add-slot":
		s.adminAddSlot(ctx, args[1:])
	case "slots":
		s.adminSlots(ctx, args[1:])
	case "stats":
		s.adminStats(ctx)
	default:
		fmt.Fprintf(s.out, "unknown admin command %q\n", args[0])
	}
}

func (s *Session) adminAddDoctor(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "usage: admin add-doctor <name> [specialization]")
		return
	}
	req := &dto.CreateDoctorRequest{Name: args[0]}
	if len(args) > 1 {
		req.Specialization = strings.Join(args[1:], " ")
	}
	doctor, err := s.apiClient.CreateDoctor(ctx, req)
	if err != nil {
		s.notices.Error("could not create doctor")
		render.Errorf(s.out, "%v", err)
		return
	}
	s.notices.Success("doctor created")
	fmt.Fprintf(s.out, "created doctor %d (%s)\n", doctor.ID, doctor.Name)

	// The doctor set changed, so the directory must be re-fetched.
	if _, err := s.directory.Refresh(ctx); err != nil {
		render.Errorf(s.out, "directory refresh failed: %v", err)
	}
}

func (s *Session) adminAddSlot(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Fprintln(s.out, "usage: admin add-slot <doctor-id> <start RFC3339> <minutes>")
		return
	}
	doctorID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		render.Errorf(s.out, "invalid doctor id %q", args[0])
		return
	}
	start, err := time.Parse(time.RFC3339, args[1])
	if err != nil {
		render.Errorf(s.out, "invalid start time %q", args[1])
		return
	}
	minutes, err := strconv.Atoi(args[2])
	if err != nil || minutes <= 0 {
		render.Errorf(s.out, "invalid duration %q", args[2])
		return
	}

	slot, err := s.apiClient.CreateSlot(ctx, &dto.CreateSlotRequest{
		DoctorID:        doctorID,
		StartTime:       start,
		DurationMinutes: minutes,
	})
	if err != nil {
		s.notices.Error("could not create slot")
		render.Errorf(s.out, "%v", err)
		return
	}
	s.notices.Success("slot created")
	fmt.Fprintf(s.out, "created slot %d at %s\n", slot.ID, slot.StartTime.Format(time.RFC3339))
}

func (s *Session) adminSlots(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: admin slots <doctor-id>")
		return
	}
	doctorID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		render.Errorf(s.out, "invalid doctor id %q", args[0])
		return
	}
	all, err := s.apiClient.ListAdminDoctorSlots(ctx, doctorID)
	if err != nil {
		render.Errorf(s.out, "%v", err)
		return
	}
	rows := make([][]string, 0, len(all))
	for _, slot := range all {
		rows = append(rows, []string{
			strconv.FormatInt(slot.ID, 10),
			slot.StartTime.Format(time.RFC3339),
			fmt.Sprintf("%d min", slot.DurationMinutes),
		})
	}
	render.Table(s.out, []string{"ID", "START", "DURATION"}, rows)
}

func (s *Session) adminStats(ctx context.Context) {
	stats, err := s.apiClient.Stats(ctx)
	if err != nil {
		render.Errorf(s.out, "%v", err)
		return
	}
	render.KV(s.out, [][2]string{
		{"Doctors", strconv.FormatInt(stats.Doctors, 10)},
		{"Slots", strconv.FormatInt(stats.Slots, 10)},
		{"Bookings", strconv.FormatInt(stats.Bookings, 10)},
		{"Pending", strconv.FormatInt(stats.PendingBookings, 10)},
		{"Confirmed", strconv.FormatInt(stats.ConfirmedBookings, 10)},
		{"Failed", strconv.FormatInt(stats.FailedBookings, 10)},
	})
}

func (s *Session) findSlot(slotID int64) *entity.AppointmentSlot {
	snap := s.slotQuery.Snapshot()
	for i := range snap.Slots {
		if snap.Slots[i].ID == slotID {
			return &snap.Slots[i]
		}
	}
	return nil
}

func (s *Session) findDoctor(doctorID int64) *entity.Doctor {
	snap := s.directory.Snapshot()
	for i := range snap.Doctors {
		if snap.Doctors[i].ID == doctorID {
			return &snap.Doctors[i]
		}
	}
	return nil
}
