package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/lifecycle"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/utils"
)

type TaskServiceTestSuite struct {
	serviceSuite
	owner    identity.Caller
	provider identity.Caller
	category *models.Category
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.owner = s.createUser("owner")
	s.provider = s.createProvider("provider")
	s.category = s.createCategory("Carpentry")
}

func (s *TaskServiceTestSuite) TestEndToEnd() {
	task := s.createTask(s.owner, s.category.ID)
	s.Equal(lifecycle.StatusCreated, task.Status)

	offer := s.submitOffer(s.provider, task.ID, 50)
	s.Equal(lifecycle.StatusOfferPending, s.reloadTask(task.ID).Status)
	s.True(offer.IsPending())

	decided, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.Require().NoError(err)
	s.True(decided.IsAccepted)
	s.False(decided.IsRejected)
	s.Equal(lifecycle.StatusOfferAccepted, s.reloadTask(task.ID).Status)

	progress, err := s.tasks.AddProgress(s.ctx, s.provider, AddProgressInput{TaskID: task.ID, Description: "50% done"})
	s.Require().NoError(err)
	s.NotEmpty(progress.ID)
	s.Equal(lifecycle.StatusInProgress, s.reloadTask(task.ID).Status)
	s.Equal(int64(1), s.countRows(&models.Progress{}))

	updated, err := s.tasks.MarkCompleted(s.ctx, s.provider, task.ID)
	s.Require().NoError(err)
	s.Equal(lifecycle.StatusCompletedByProvider, updated.Status)

	updated, err = s.tasks.HandleCompletion(s.ctx, s.owner, RespondToCompletionInput{TaskID: task.ID, Accept: true})
	s.Require().NoError(err)
	s.Equal(lifecycle.StatusCompletionAccepted, updated.Status)

	final := s.reloadTask(task.ID)
	s.Equal(lifecycle.StatusCompletionAccepted, final.Status)
	s.True(final.Status.Valid())
	s.True(lifecycle.IsTerminal(final.Status))
}

func (s *TaskServiceTestSuite) TestAddProgress_ProviderWithoutOffer() {
	task := s.createTask(s.owner, s.category.ID)
	offer := s.submitOffer(s.provider, task.ID, 50)
	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.Require().NoError(err)

	stranger := s.createProvider("stranger")
	_, err = s.tasks.AddProgress(s.ctx, stranger, AddProgressInput{TaskID: task.ID, Description: "..."})
	s.ErrorIs(err, ErrUnauthorized)
	s.Equal(lifecycle.StatusOfferAccepted, s.reloadTask(task.ID).Status)
	s.Equal(int64(0), s.countRows(&models.Progress{}))
}

func (s *TaskServiceTestSuite) TestAddProgress_CrossTaskIsolation() {
	taskA := s.createTask(s.owner, s.category.ID)
	taskB := s.createTask(s.owner, s.category.ID)

	offerA := s.submitOffer(s.provider, taskA.ID, 50)
	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offerA.ID, Accept: true})
	s.Require().NoError(err)

	other := s.createProvider("other")
	offerB := s.submitOffer(other, taskB.ID, 45)
	_, err = s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offerB.ID, Accept: true})
	s.Require().NoError(err)

	// Holding the accepted offer on A grants nothing on B.
	_, err = s.tasks.AddProgress(s.ctx, s.provider, AddProgressInput{TaskID: taskB.ID, Description: "sneaky"})
	s.ErrorIs(err, ErrUnauthorized)
	_, err = s.tasks.MarkCompleted(s.ctx, s.provider, taskB.ID)
	s.ErrorIs(err, ErrUnauthorized)
	s.Equal(lifecycle.StatusOfferAccepted, s.reloadTask(taskB.ID).Status)
}

func (s *TaskServiceTestSuite) TestAddProgress_Validation() {
	task := s.createTask(s.owner, s.category.ID)
	offer := s.submitOffer(s.provider, task.ID, 50)
	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.Require().NoError(err)

	_, err = s.tasks.AddProgress(s.ctx, s.provider, AddProgressInput{TaskID: task.ID, Description: "   "})
	s.ErrorIs(err, ErrValidation)

	_, err = s.tasks.AddProgress(s.ctx, s.provider, AddProgressInput{TaskID: "missing", Description: "x"})
	s.ErrorIs(err, ErrNotFound)
}

func (s *TaskServiceTestSuite) TestAddProgress_AfterCompletionConflicts() {
	task := s.createTask(s.owner, s.category.ID)
	offer := s.submitOffer(s.provider, task.ID, 50)
	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.Require().NoError(err)
	_, err = s.tasks.AddProgress(s.ctx, s.provider, AddProgressInput{TaskID: task.ID, Description: "started"})
	s.Require().NoError(err)
	_, err = s.tasks.MarkCompleted(s.ctx, s.provider, task.ID)
	s.Require().NoError(err)

	_, err = s.tasks.AddProgress(s.ctx, s.provider, AddProgressInput{TaskID: task.ID, Description: "one more thing"})
	s.ErrorIs(err, ErrConflict)
	s.Equal(lifecycle.StatusCompletedByProvider, s.reloadTask(task.ID).Status)
}

func (s *TaskServiceTestSuite) TestSubmitOffer_MissingTaskWritesNothing() {
	_, err := s.tasks.SubmitOffer(s.ctx, s.provider, SubmitOfferInput{TaskID: "does-not-exist", Rate: decimal.NewFromInt(50)})
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(err, ErrTaskNotFound)
	s.Equal(int64(0), s.countRows(&models.Offer{}))
}

func (s *TaskServiceTestSuite) TestSubmitOffer_Guards() {
	task := s.createTask(s.owner, s.category.ID)

	_, err := s.tasks.SubmitOffer(s.ctx, s.owner, SubmitOfferInput{TaskID: task.ID, Rate: decimal.NewFromInt(50)})
	s.ErrorIs(err, ErrUnauthorized, "users cannot bid")

	_, err = s.tasks.SubmitOffer(s.ctx, s.provider, SubmitOfferInput{TaskID: task.ID, Rate: decimal.Zero})
	s.ErrorIs(err, ErrValidation)

	s.submitOffer(s.provider, task.ID, 50)
	_, err = s.tasks.SubmitOffer(s.ctx, s.provider, SubmitOfferInput{TaskID: task.ID, Rate: decimal.NewFromInt(45)})
	s.ErrorIs(err, ErrDuplicatePendingOffer)

	// Other providers may still bid on a pending task.
	s.submitOffer(s.createProvider("second"), task.ID, 55)
	s.Equal(int64(2), s.countRows(&models.Offer{}))
}

func (s *TaskServiceTestSuite) TestSubmitOffer_AfterAcceptConflicts() {
	task := s.createTask(s.owner, s.category.ID)
	offer := s.submitOffer(s.provider, task.ID, 50)
	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.Require().NoError(err)

	_, err = s.tasks.SubmitOffer(s.ctx, s.createProvider("late"), SubmitOfferInput{TaskID: task.ID, Rate: decimal.NewFromInt(30)})
	s.ErrorIs(err, ErrConflict)
	s.ErrorIs(err, ErrOfferAlreadyAccepted)
}

func (s *TaskServiceTestSuite) TestRespondToOffer_DecisionIsFinal() {
	task := s.createTask(s.owner, s.category.ID)
	offer := s.submitOffer(s.provider, task.ID, 50)

	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.Require().NoError(err)

	// Reject after accept.
	_, err = s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: false})
	s.ErrorIs(err, ErrConflict)
	stored := s.reloadOffer(offer.ID)
	s.True(stored.IsAccepted)
	s.False(stored.IsRejected)
	s.Equal(lifecycle.StatusOfferAccepted, s.reloadTask(task.ID).Status)

	// Accept after reject.
	other := s.createTask(s.owner, s.category.ID)
	rejected := s.submitOffer(s.provider, other.ID, 50)
	_, err = s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: rejected.ID, Accept: false})
	s.Require().NoError(err)
	s.Equal(lifecycle.StatusOfferRejected, s.reloadTask(other.ID).Status)

	_, err = s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: rejected.ID, Accept: true})
	s.ErrorIs(err, ErrOfferAlreadyDecided)
	stored = s.reloadOffer(rejected.ID)
	s.False(stored.IsAccepted)
	s.True(stored.IsRejected)
}

func (s *TaskServiceTestSuite) TestRespondToOffer_RejectKeepsPendingWhileOthersRemain() {
	task := s.createTask(s.owner, s.category.ID)
	first := s.submitOffer(s.provider, task.ID, 50)
	second := s.submitOffer(s.createProvider("second"), task.ID, 60)

	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: first.ID, Accept: false})
	s.Require().NoError(err)
	s.Equal(lifecycle.StatusOfferPending, s.reloadTask(task.ID).Status)

	_, err = s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: second.ID, Accept: false})
	s.Require().NoError(err)
	s.Equal(lifecycle.StatusOfferRejected, s.reloadTask(task.ID).Status)

	// A rejected task takes new offers again.
	s.submitOffer(s.createProvider("third"), task.ID, 70)
	s.Equal(lifecycle.StatusOfferPending, s.reloadTask(task.ID).Status)
}

func (s *TaskServiceTestSuite) TestRespondToOffer_AcceptRejectsCompetitors() {
	task := s.createTask(s.owner, s.category.ID)
	winner := s.submitOffer(s.provider, task.ID, 50)
	loser := s.submitOffer(s.createProvider("loser"), task.ID, 65)

	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: winner.ID, Accept: true})
	s.Require().NoError(err)

	stored := s.reloadOffer(loser.ID)
	s.True(stored.IsRejected)
	s.False(stored.IsAccepted)

	_, err = s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: loser.ID, Accept: true})
	s.ErrorIs(err, ErrConflict)
}

func (s *TaskServiceTestSuite) TestRespondToOffer_NotFoundAndNotOwner() {
	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: "missing", Accept: true})
	s.ErrorIs(err, ErrNotFound)

	task := s.createTask(s.owner, s.category.ID)
	offer := s.submitOffer(s.provider, task.ID, 50)

	intruder := s.createUser("intruder")
	_, err = s.tasks.RespondToOffer(s.ctx, intruder, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.ErrorIs(err, ErrUnauthorized)
	s.True(s.reloadOffer(offer.ID).IsPending())
}

func (s *TaskServiceTestSuite) TestRespondToOffer_ConcurrentAcceptsOneWins() {
	task := s.createTask(s.owner, s.category.ID)
	offers := []*models.Offer{
		s.submitOffer(s.provider, task.ID, 50),
		s.submitOffer(s.createProvider("rival"), task.ID, 55),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(offers))
	for i, offer := range offers {
		wg.Add(1)
		go func(i int, offerID string) {
			defer wg.Done()
			_, errs[i] = s.tasks.RespondToOffer(context.Background(), s.owner, RespondToOfferInput{OfferID: offerID, Accept: true})
		}(i, offer.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, ErrConflict)
	}
	s.Equal(1, succeeded)

	var accepted int64
	s.Require().NoError(s.db.Model(&models.Offer{}).Where("task_id = ? AND is_accepted = ?", task.ID, true).Count(&accepted).Error)
	s.Equal(int64(1), accepted)
	s.Equal(lifecycle.StatusOfferAccepted, s.reloadTask(task.ID).Status)
}

func (s *TaskServiceTestSuite) TestMarkCompleted_Idempotent() {
	task := s.createTask(s.owner, s.category.ID)
	offer := s.submitOffer(s.provider, task.ID, 50)
	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.Require().NoError(err)
	_, err = s.tasks.AddProgress(s.ctx, s.provider, AddProgressInput{TaskID: task.ID, Description: "done"})
	s.Require().NoError(err)

	first, err := s.tasks.MarkCompleted(s.ctx, s.provider, task.ID)
	s.Require().NoError(err)
	second, err := s.tasks.MarkCompleted(s.ctx, s.provider, task.ID)
	s.Require().NoError(err)

	s.Equal(lifecycle.StatusCompletedByProvider, first.Status)
	s.Equal(first.Status, second.Status)
	s.Equal(int64(1), s.countRows(&models.Progress{}))
	s.Equal(int64(1), s.countRows(&models.Offer{}))
}

func (s *TaskServiceTestSuite) TestMarkCompleted_BeforeWorkConflicts() {
	task := s.createTask(s.owner, s.category.ID)
	offer := s.submitOffer(s.provider, task.ID, 50)
	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.Require().NoError(err)

	_, err = s.tasks.MarkCompleted(s.ctx, s.provider, task.ID)
	s.ErrorIs(err, ErrInvalidTransition)
	s.ErrorIs(err, lifecycle.ErrInvalidTransition)
}

func (s *TaskServiceTestSuite) TestHandleCompletion_NonOwnerRegardlessOfStatus() {
	intruder := s.createUser("intruder")
	task := s.createTask(s.owner, s.category.ID)

	assertUnauthorized := func() {
		_, err := s.tasks.HandleCompletion(s.ctx, intruder, RespondToCompletionInput{TaskID: task.ID, Accept: true})
		s.ErrorIs(err, ErrUnauthorized)
		_, err = s.tasks.HandleCompletion(s.ctx, s.provider, RespondToCompletionInput{TaskID: task.ID, Accept: false})
		s.ErrorIs(err, ErrUnauthorized)
	}

	assertUnauthorized()

	offer := s.submitOffer(s.provider, task.ID, 50)
	assertUnauthorized()

	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.Require().NoError(err)
	_, err = s.tasks.AddProgress(s.ctx, s.provider, AddProgressInput{TaskID: task.ID, Description: "half"})
	s.Require().NoError(err)
	_, err = s.tasks.MarkCompleted(s.ctx, s.provider, task.ID)
	s.Require().NoError(err)
	assertUnauthorized()

	s.Equal(lifecycle.StatusCompletedByProvider, s.reloadTask(task.ID).Status)

	_, err = s.tasks.HandleCompletion(s.ctx, s.owner, RespondToCompletionInput{TaskID: "missing", Accept: true})
	s.ErrorIs(err, ErrNotFound)
}

func (s *TaskServiceTestSuite) TestHandleCompletion_RejectAllowsRework() {
	task := s.createTask(s.owner, s.category.ID)
	offer := s.submitOffer(s.provider, task.ID, 50)
	_, err := s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.Require().NoError(err)

	_, err = s.tasks.HandleCompletion(s.ctx, s.owner, RespondToCompletionInput{TaskID: task.ID, Accept: true})
	s.ErrorIs(err, ErrConflict, "nothing to accept yet")

	_, err = s.tasks.AddProgress(s.ctx, s.provider, AddProgressInput{TaskID: task.ID, Description: "first pass"})
	s.Require().NoError(err)
	_, err = s.tasks.MarkCompleted(s.ctx, s.provider, task.ID)
	s.Require().NoError(err)

	updated, err := s.tasks.HandleCompletion(s.ctx, s.owner, RespondToCompletionInput{TaskID: task.ID, Accept: false})
	s.Require().NoError(err)
	s.Equal(lifecycle.StatusCompletionRejected, updated.Status)

	_, err = s.tasks.SubmitOffer(s.ctx, s.createProvider("newcomer"), SubmitOfferInput{TaskID: task.ID, Rate: decimal.NewFromInt(20)})
	s.ErrorIs(err, ErrConflict)

	_, err = s.tasks.AddProgress(s.ctx, s.provider, AddProgressInput{TaskID: task.ID, Description: "fixed"})
	s.Require().NoError(err)
	s.Equal(lifecycle.StatusInProgress, s.reloadTask(task.ID).Status)

	progress, err := s.tasks.ListProgress(s.ctx, s.owner, task.ID)
	s.Require().NoError(err)
	s.Len(progress, 2)
	s.Equal("first pass", progress[0].Description)
}

func (s *TaskServiceTestSuite) TestListOffersForTask_RequiresOwnershipOfThatTask() {
	mine := s.createTask(s.owner, s.category.ID)
	s.submitOffer(s.provider, mine.ID, 50)

	otherOwner := s.createUser("other-owner")
	theirs := s.createTask(otherOwner, s.category.ID)
	s.submitOffer(s.provider, theirs.ID, 60)

	offers, err := s.tasks.ListOffersForTask(s.ctx, s.owner, mine.ID)
	s.Require().NoError(err)
	s.Require().Len(offers, 1)
	s.Equal(mine.ID, offers[0].TaskID)
	s.Equal(s.provider.ActorID, offers[0].Provider.ID)
	s.Require().NotNil(offers[0].Provider.IndividualDetails)

	// Owning some task is not enough to read another task's offers.
	_, err = s.tasks.ListOffersForTask(s.ctx, s.owner, theirs.ID)
	s.ErrorIs(err, ErrUnauthorized)

	_, err = s.tasks.ListOffersForTask(s.ctx, s.provider, mine.ID)
	s.ErrorIs(err, ErrUnauthorized)
}

func (s *TaskServiceTestSuite) TestCreateTask_Validation() {
	valid := CreateTaskInput{
		Name:              "Paint",
		ExpectedStartDate: time.Now(),
		ExpectedHours:     2,
		HourlyRate:        decimal.NewFromInt(10),
		Currency:          models.CurrencyUSD,
		CategoryID:        s.category.ID,
	}

	tests := []struct {
		name   string
		caller identity.Caller
		mutate func(*CreateTaskInput)
		kind   error
	}{
		{name: "empty name", caller: s.owner, mutate: func(in *CreateTaskInput) { in.Name = " " }, kind: ErrValidation},
		{name: "zero hours", caller: s.owner, mutate: func(in *CreateTaskInput) { in.ExpectedHours = 0 }, kind: ErrValidation},
		{name: "negative rate", caller: s.owner, mutate: func(in *CreateTaskInput) { in.HourlyRate = decimal.NewFromInt(-1) }, kind: ErrValidation},
		{name: "unknown currency", caller: s.owner, mutate: func(in *CreateTaskInput) { in.Currency = "EUR" }, kind: ErrValidation},
		{name: "missing category", caller: s.owner, mutate: func(in *CreateTaskInput) { in.CategoryID = "missing" }, kind: ErrNotFound},
		{name: "missing user", caller: identity.Caller{ActorID: "ghost", Role: models.RoleUser}, mutate: func(*CreateTaskInput) {}, kind: ErrNotFound},
		{name: "provider caller", caller: s.provider, mutate: func(*CreateTaskInput) {}, kind: ErrUnauthorized},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			input := valid
			tt.mutate(&input)
			_, err := s.tasks.CreateTask(s.ctx, tt.caller, input)
			s.ErrorIs(err, tt.kind)
		})
	}
	s.Equal(int64(0), s.countRows(&models.Task{}))

	// Zero rate is allowed.
	input := valid
	input.HourlyRate = decimal.Zero
	_, err := s.tasks.CreateTask(s.ctx, s.owner, input)
	s.NoError(err)
}

func (s *TaskServiceTestSuite) TestListTasks_FiltersAndOrdering() {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	create := func(owner identity.Caller, name string, start time.Time) *models.Task {
		task, err := s.tasks.CreateTask(s.ctx, owner, CreateTaskInput{
			Name: name, ExpectedStartDate: start, ExpectedHours: 1,
			HourlyRate: decimal.NewFromInt(5), Currency: models.CurrencyINR, CategoryID: s.category.ID,
		})
		s.Require().NoError(err)
		return task
	}

	other := s.createUser("someone")
	early := create(s.owner, "early", base)
	late := create(other, "late", base.Add(72*time.Hour))
	s.submitOffer(s.provider, late.ID, 12)

	page, err := s.tasks.ListTasks(s.ctx, ListTasksInput{Page: utils.NewPaginationParams(1, 10)})
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)
	s.Equal("late", page.Tasks[0].Name)
	s.Equal("early", page.Tasks[1].Name)

	page, err = s.tasks.ListTasks(s.ctx, ListTasksInput{Status: "offer_pending"})
	s.Require().NoError(err)
	s.Require().Len(page.Tasks, 1)
	s.Equal(late.ID, page.Tasks[0].ID)

	page, err = s.tasks.ListTasks(s.ctx, ListTasksInput{Status: lifecycle.StatusAll})
	s.Require().NoError(err)
	s.Len(page.Tasks, 2)

	_, err = s.tasks.ListTasks(s.ctx, ListTasksInput{Status: "finished"})
	s.ErrorIs(err, ErrValidation)

	mine, err := s.tasks.ListMyTasks(s.ctx, s.owner, ListTasksInput{Status: lifecycle.StatusAll})
	s.Require().NoError(err)
	s.Require().Len(mine.Tasks, 1)
	s.Equal(early.ID, mine.Tasks[0].ID)

	mine, err = s.tasks.ListMyTasks(s.ctx, s.owner, ListTasksInput{Status: "offer_pending"})
	s.Require().NoError(err)
	s.Empty(mine.Tasks)

	_, err = s.tasks.ListMyTasks(s.ctx, s.provider, ListTasksInput{})
	s.ErrorIs(err, ErrUnauthorized)
}

func (s *TaskServiceTestSuite) TestCancelTask() {
	task := s.createTask(s.owner, s.category.ID)
	pending := s.submitOffer(s.provider, task.ID, 50)

	_, err := s.tasks.CancelTask(s.ctx, s.createUser("nosy"), task.ID)
	s.ErrorIs(err, ErrUnauthorized)

	cancelled, err := s.tasks.CancelTask(s.ctx, s.owner, task.ID)
	s.Require().NoError(err)
	s.Equal(lifecycle.StatusCancelledByUser, cancelled.Status)
	s.True(s.reloadOffer(pending.ID).IsRejected)

	_, err = s.tasks.CancelTask(s.ctx, s.owner, task.ID)
	s.ErrorIs(err, ErrConflict)

	// The assigned provider may back out before starting.
	second := s.createTask(s.owner, s.category.ID)
	offer := s.submitOffer(s.provider, second.ID, 50)
	_, err = s.tasks.RespondToOffer(s.ctx, s.owner, RespondToOfferInput{OfferID: offer.ID, Accept: true})
	s.Require().NoError(err)

	_, err = s.tasks.CancelTask(s.ctx, s.owner, second.ID)
	s.ErrorIs(err, ErrConflict, "owner cannot cancel after accepting")

	cancelled, err = s.tasks.CancelTask(s.ctx, s.provider, second.ID)
	s.Require().NoError(err)
	s.Equal(lifecycle.StatusCancelledByProvider, cancelled.Status)
}

func (s *TaskServiceTestSuite) TestWrite_CallerCancellationAfterCommit() {
	task := s.createTask(s.owner, s.category.ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.tasks.SubmitOffer(ctx, s.provider, SubmitOfferInput{TaskID: task.ID, Rate: decimal.NewFromInt(50)})
	s.ErrorIs(err, context.Canceled)

	// The write itself was not abandoned.
	s.Equal(lifecycle.StatusOfferPending, s.reloadTask(task.ID).Status)
	s.Equal(int64(1), s.countRows(&models.Offer{}))
}

func (s *TaskServiceTestSuite) TestWrite_CallerCancellationKeepsAcceptAtomic() {
	task := s.createTask(s.owner, s.category.ID)
	winner := s.submitOffer(s.provider, task.ID, 50)
	loser := s.submitOffer(s.createProvider("runner-up"), task.ID, 55)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.tasks.RespondToOffer(ctx, s.owner, RespondToOfferInput{OfferID: winner.ID, Accept: true})
	s.ErrorIs(err, context.Canceled)

	// Every statement of the accept ran: the decision, the competing
	// rejection and the status change.
	s.True(s.reloadOffer(winner.ID).IsAccepted)
	s.True(s.reloadOffer(loser.ID).IsRejected)
	s.Equal(lifecycle.StatusOfferAccepted, s.reloadTask(task.ID).Status)
}

func (s *TaskServiceTestSuite) TestWrite_KeepsCallerDeadline() {
	task := s.createTask(s.owner, s.category.ID)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := s.tasks.SubmitOffer(ctx, s.provider, SubmitOfferInput{TaskID: task.ID, Rate: decimal.NewFromInt(50)})
	s.Error(err)
	s.Equal(lifecycle.StatusCreated, s.reloadTask(task.ID).Status)
	s.Equal(int64(0), s.countRows(&models.Offer{}))
}

func (s *TaskServiceTestSuite) TestGetTask() {
	task := s.createTask(s.owner, s.category.ID)

	found, err := s.tasks.GetTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Equal("Carpentry", found.Category.Name)
	s.Equal(s.owner.ActorID, found.Owner.ID)

	_, err = s.tasks.GetTask(s.ctx, "missing")
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestDraftTasks_NotConfigured() {
	_, err := s.tasks.DraftTasks(s.ctx, "paint two rooms")
	s.ErrorIs(err, ErrAIServiceNotConfigured)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
