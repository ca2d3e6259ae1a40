package battle

import (
	"context"
	"fmt"
	"sync"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/monbattle/internal/game/capture"
	"github.com/cory-johannsen/monbattle/internal/game/catalog"
	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/game/species"
)

// BattleType distinguishes wild encounters from trainer battles.
type BattleType string

const (
	BattleWild    BattleType = "wild"
	BattleTrainer BattleType = "trainer"
)

// Phase is the battle lifecycle state.
type Phase string

const (
	PhaseIntro   Phase = "intro"
	PhaseBattle  Phase = "battle"
	PhaseVictory Phase = "victory"
	PhaseDefeat  Phase = "defeat"
	PhaseFled    Phase = "fled"
)

// Terminal reports whether no further turns can be played.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseDefeat || p == PhaseFled
}

// Winner names the side that won, or a draw.
type Winner string

const (
	WinnerNone     Winner = ""
	WinnerPlayer   Winner = "player"
	WinnerOpponent Winner = "opponent"
	WinnerDraw     Winner = "draw"
)

// phase machine events
const (
	eventBegin = "begin"
	eventWin   = "win"
	eventLose  = "lose"
	eventFlee  = "flee"
)

// MoveProvider resolves move definitions by ID.
type MoveProvider interface {
	Get(id string) (*catalog.MoveDef, bool)
}

// SpeciesProvider resolves species templates by ID.
type SpeciesProvider interface {
	Get(id string) (*species.Template, bool)
}

// Config holds the collaborators a Session is built from.
type Config struct {
	Species SpeciesProvider
	Moves   MoveProvider
	// Source supplies every random draw. Defaults to dice.NewCryptoSource().
	Source dice.Source
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
	// LogCapacity bounds the battle log. Defaults to DefaultLogCapacity.
	LogCapacity int
}

// Combatant requests one creature by species and level.
type Combatant struct {
	SpeciesID string
	Level     int
}

// Context describes the circumstances of a battle.
type Context struct {
	Type BattleType
	// Location is matched by location-sensitive balls.
	Location    string
	PlayerLevel int
	TrainerName string
}

// Result is the read-only projection of a battle's outcome.
type Result struct {
	ID            string
	Type          BattleType
	Player        Combatant
	Opponent      Combatant
	Phase         Phase
	Winner        Winner
	ExpGained     int
	PokemonCaught bool
	// Capture is the last capture attempt, nil if no ball was thrown.
	Capture *capture.Result
	// Turns is the number of fully or partially resolved turns.
	Turns     int
	BattleLog []string
}

// Session is one battle between a player creature and an opponent creature.
// All methods are safe for concurrent use; turns are resolved under the
// session's lock so two resolutions never interleave.
type Session struct {
	mu sync.Mutex

	id           string
	ctx          Context
	combatants   [2]Combatant
	participants [2]*Participant
	lead         Side
	turn         int
	machine      *fsm.FSM
	pending      []Action
	seq          int
	log          *Log
	winner       Winner
	expGained    int
	caught       bool
	capture      *capture.Result
	fleeAttempts int

	src      dice.Source
	moves    MoveProvider
	calc     *Calculator
	effects  *EffectApplier
	capturer *capture.Resolver
	logger   *zap.Logger
}

// New builds both participants, emits the intro lines and enters the battle phase.
//
// Precondition: cfg.Species and cfg.Moves must be non-nil; bctx.Type must be wild or trainer.
// Postcondition: Returns a session in PhaseBattle at turn 1, or an error wrapping
// ErrTemplateNotFound when either species cannot be resolved.
func New(cfg Config, id string, player, opponent Combatant, bctx Context) (*Session, error) {
	if bctx.Type != BattleWild && bctx.Type != BattleTrainer {
		return nil, fmt.Errorf("unknown battle type %q", bctx.Type)
	}
	src := cfg.Source
	if src == nil {
		src = dice.NewCryptoSource()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("battle_id", id))
	capacity := cfg.LogCapacity
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}

	calc := NewCalculator(src)
	s := &Session{
		id:         id,
		ctx:        bctx,
		combatants: [2]Combatant{player, opponent},
		turn:       1,
		log:        NewLog(capacity),
		src:        src,
		moves:      cfg.Moves,
		calc:       calc,
		effects:    NewEffectApplier(src, calc),
		capturer:   capture.NewResolver(src),
		logger:     logger,
	}

	for side, c := range []Combatant{player, opponent} {
		p, err := s.buildParticipant(cfg.Species, c, Side(side) == SideOpponent && bctx.Type == BattleWild)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", Side(side), err)
		}
		s.participants[side] = p
	}

	s.machine = fsm.NewFSM(
		string(PhaseIntro),
		fsm.Events{
			{Name: eventBegin, Src: []string{string(PhaseIntro)}, Dst: string(PhaseBattle)},
			{Name: eventWin, Src: []string{string(PhaseBattle)}, Dst: string(PhaseVictory)},
			{Name: eventLose, Src: []string{string(PhaseBattle)}, Dst: string(PhaseDefeat)},
			{Name: eventFlee, Src: []string{string(PhaseBattle)}, Dst: string(PhaseFled)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.logger.Debug("battle phase changed",
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
					zap.Int("turn", s.turn),
				)
			},
		},
	)

	s.lead = s.initialLead()
	s.intro()
	if err := s.transition(eventBegin); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) buildParticipant(provider SpeciesProvider, c Combatant, wild bool) (*Participant, error) {
	tmpl, ok := provider.Get(c.SpeciesID)
	if !ok {
		return nil, fmt.Errorf("species %q: %w", c.SpeciesID, ErrTemplateNotFound)
	}
	p, missing, err := NewParticipant(tmpl, c.Level, s.moves, wild)
	if err != nil {
		return nil, fmt.Errorf("species %q: %w", c.SpeciesID, err)
	}
	for _, id := range missing {
		s.logger.Warn("learnset move missing from catalog",
			zap.String("species", c.SpeciesID),
			zap.String("move", id),
		)
	}
	return p, nil
}

// initialLead compares effective speed; ties are broken uniformly at random.
func (s *Session) initialLead() Side {
	ps := s.participants[SidePlayer].EffectiveSpeed()
	os := s.participants[SideOpponent].EffectiveSpeed()
	switch {
	case ps > os:
		return SidePlayer
	case os > ps:
		return SideOpponent
	}
	return Side(s.src.Intn(2))
}

func (s *Session) intro() {
	player, opp := s.participants[SidePlayer], s.participants[SideOpponent]
	if s.ctx.Type == BattleWild {
		s.log.Addf("A wild %s appeared!", opp.Name)
	} else {
		trainer := s.ctx.TrainerName
		if trainer == "" {
			trainer = "Trainer"
		}
		s.log.Addf("%s sent out %s!", trainer, opp.Name)
	}
	s.log.Addf("Go! %s!", player.Name)
}

func (s *Session) transition(event string) error {
	if err := s.machine.Event(context.Background(), event); err != nil {
		return fmt.Errorf("battle %s: phase event %q: %w", s.id, event, err)
	}
	return nil
}

// ID returns the battle identifier.
func (s *Session) ID() string { return s.id }

// Type returns the battle type.
func (s *Session) Type() BattleType { return s.ctx.Type }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase()
}

func (s *Session) phase() Phase { return Phase(s.machine.Current()) }

// Turn returns the current turn number, starting at 1.
func (s *Session) Turn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn
}

// Lead returns the side that was faster when the battle began.
func (s *Session) Lead() Side { return s.lead }

// Participant returns the live participant in side's slot without locking.
// It is meant for tests and single-threaded drivers that set up state;
// concurrent callers must use Snapshot.
func (s *Session) Participant(side Side) *Participant { return s.participants[side] }

// Snapshot returns a deep copy of the participant in side's slot, taken under
// the session lock.
func (s *Session) Snapshot(side Side) Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.participants[side].Clone()
}

// Pending returns the number of actions queued for the current turn.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// quota is the number of caller submissions that triggers resolution: the
// lone player action in a wild battle, one action per side otherwise.
func (s *Session) quota() int {
	if s.ctx.Type == BattleWild {
		return 1
	}
	return 2
}

// Submit queues an action for side. Priority, Speed and Seq are filled in by
// the session. In wild battles the opponent's action is generated as soon as
// the player's is queued; the turn resolves once both sides have acted.
//
// Precondition: side must be valid.
// Postcondition: Returns an error wrapping ErrNotApplicable when the battle is
// not in PhaseBattle, side already has an action queued, side is the wild
// opponent, or a ball or flee is attempted outside a wild battle;
// ErrInvalidAction for ActionUnknown. Nothing is queued on error.
func (s *Session) Submit(side Side, a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !side.Valid() {
		return fmt.Errorf("side %d: %w", side, ErrInvalidAction)
	}
	if a.Type < ActionAttack || a.Type > ActionSwitch {
		return fmt.Errorf("action type %s: %w", a.Type, ErrInvalidAction)
	}
	if ph := s.phase(); ph != PhaseBattle {
		return fmt.Errorf("battle is %s: %w", ph, ErrNotApplicable)
	}
	if side == SideOpponent && s.ctx.Type == BattleWild {
		return fmt.Errorf("wild opponent actions are generated: %w", ErrNotApplicable)
	}
	for _, q := range s.pending {
		if q.Side == side {
			return fmt.Errorf("%s already acted this turn: %w", side, ErrNotApplicable)
		}
	}
	if err := s.checkWildOnly(side, a); err != nil {
		return err
	}

	s.enqueue(side, a)
	if len(s.pending) < s.quota() {
		return nil
	}
	if s.ctx.Type == BattleWild {
		s.enqueue(SideOpponent, s.wildAction())
	}
	s.resolveTurn()
	return nil
}

// checkWildOnly rejects balls and fleeing unless the player is facing a wild
// creature. The rejection is logged but consumes no turn.
func (s *Session) checkWildOnly(side Side, a Action) error {
	if s.ctx.Type == BattleWild && side == SidePlayer {
		return nil
	}
	switch {
	case a.Type == ActionItem && capture.IsBall(a.ItemID):
		s.log.Add("The trainer blocked the ball! Don't be a thief!")
		return fmt.Errorf("capture outside a wild battle: %w", ErrNotApplicable)
	case a.Type == ActionRun:
		s.log.Add("No! There's no running from a trainer battle!")
		return fmt.Errorf("fleeing: %w", ErrNotApplicable)
	}
	return nil
}

func (s *Session) enqueue(side Side, a Action) {
	actor := s.participants[side]
	a.Side = side
	a.Priority = NonMovePriority
	if a.Type == ActionAttack {
		a.Priority = 0
		if move, _, err := s.resolveMove(actor, a.MoveID); err == nil {
			a.Priority = move.Priority
		}
	}
	a.Speed = actor.EffectiveSpeed()
	a.Seq = s.seq
	s.seq++
	s.pending = append(s.pending, a)
	s.logger.Debug("action queued",
		zap.Stringer("side", side),
		zap.Stringer("type", a.Type),
		zap.String("move", a.MoveID),
		zap.String("item", a.ItemID),
		zap.Int("priority", a.Priority),
		zap.Int("speed", a.Speed),
	)
}

// wildAction picks uniformly among the wild creature's moves with PP left,
// falling back to Struggle.
func (s *Session) wildAction() Action {
	usable := s.participants[SideOpponent].UsableMoves()
	if len(usable) == 0 {
		return Action{Type: ActionAttack, MoveID: catalog.Struggle.ID}
	}
	return Action{Type: ActionAttack, MoveID: usable[s.src.Intn(len(usable))].Move.ID}
}

// resolveMove finds the move an attack uses. A creature with no PP left on
// any move always uses Struggle.
func (s *Session) resolveMove(actor *Participant, moveID string) (*catalog.MoveDef, *MoveSlot, error) {
	if len(actor.UsableMoves()) == 0 {
		return catalog.Struggle, nil, nil
	}
	slot := actor.Slot(moveID)
	if slot == nil {
		return nil, nil, fmt.Errorf("%s does not know move %q: %w", actor.Name, moveID, ErrInvalidAction)
	}
	if slot.CurrentPP <= 0 {
		return nil, nil, fmt.Errorf("%s has no PP left for %q: %w", actor.Name, moveID, ErrInvalidAction)
	}
	return slot.Move, slot, nil
}

// ResolveTurn executes every pending action in order. Submit calls it once
// the quota is met; calling it directly resolves whatever is queued.
//
// Postcondition: The queue is empty. If the battle is still in PhaseBattle the
// turn counter has advanced by one.
func (s *Session) ResolveTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase() != PhaseBattle {
		s.pending = nil
		return
	}
	s.resolveTurn()
}

func (s *Session) resolveTurn() {
	ordered := OrderActions(s.pending)
	s.pending = nil
	s.logger.Debug("resolving turn", zap.Int("turn", s.turn), zap.Int("actions", len(ordered)))

	for _, a := range ordered {
		s.execute(a)
		if s.checkBattleEnd() {
			s.logger.Info("battle ended",
				zap.String("phase", string(s.phase())),
				zap.String("winner", string(s.winner)),
				zap.Int("turn", s.turn),
			)
			return
		}
	}

	for _, side := range []Side{s.lead, s.lead.Opponent()} {
		s.log.AddAll(s.effects.EndOfTurn(s.participants[side]))
	}
	if s.checkBattleEnd() {
		return
	}
	s.turn++
}

func (s *Session) execute(a Action) {
	actor := s.participants[a.Side]
	if actor.Fainted() {
		return
	}
	var err error
	switch a.Type {
	case ActionAttack:
		err = s.executeAttack(a)
	case ActionItem:
		err = s.executeItem(a)
	case ActionRun:
		err = s.executeRun()
	case ActionSwitch:
		s.log.Addf("%s can't be switched out!", actor.Name)
		err = fmt.Errorf("switching: %w", ErrNotApplicable)
	}
	if err != nil {
		s.logger.Debug("action had no effect",
			zap.Stringer("side", a.Side),
			zap.Stringer("type", a.Type),
			zap.Error(err),
		)
	}
}

func (s *Session) executeAttack(a Action) error {
	actor := s.participants[a.Side]
	target := s.participants[a.Side.Opponent()]

	move, slot, err := s.resolveMove(actor, a.MoveID)
	if err != nil {
		s.log.Addf("%s tried to use an unknown move. Nothing happened!", actor.Name)
		s.logger.Warn("invalid attack", zap.Error(err))
		return err
	}

	canAct, lines := s.effects.BeforeMove(actor)
	s.log.AddAll(lines)
	if !canAct {
		return nil
	}

	if slot != nil {
		slot.CurrentPP--
	} else {
		s.log.Addf("%s has no moves left!", actor.Name)
	}
	s.log.Addf("%s used %s!", actor.Name, move.Name)

	if !s.calc.Hits(actor, target, move) {
		s.log.Addf("%s's attack missed!", actor.Name)
		return nil
	}
	if move.IsStatus() {
		s.log.AddAll(s.effects.ApplyStatusMove(actor, target, move))
		return nil
	}

	res := s.calc.Damage(actor, target, move)
	dealt := target.ApplyDamage(res.Damage)
	s.log.AddAll(res.Lines)
	s.log.AddAll(s.effects.ApplyAfterDamage(actor, target, move, dealt))
	s.logger.Debug("move resolved",
		zap.String("move", move.ID),
		zap.Int("damage", res.Damage),
		zap.Int("dealt", dealt),
		zap.Float64("effectiveness", res.Effectiveness),
		zap.Bool("critical", res.Critical),
	)
	return nil
}

func (s *Session) executeItem(a Action) error {
	actor := s.participants[a.Side]
	switch {
	case capture.IsBall(a.ItemID):
		return s.throwBall(a)
	case a.ItemID == FullHeal:
		if actor.Status == catalog.StatusNormal {
			s.log.Add("But it had no effect!")
			return nil
		}
		actor.CureStatus()
		s.log.Addf("%s was cured of its status!", actor.Name)
		return nil
	case IsHealingItem(a.ItemID):
		restored := actor.Heal(healingItems[a.ItemID])
		if restored == 0 {
			s.log.Add("But it had no effect!")
			return nil
		}
		s.log.Addf("%s's HP was restored by %d points.", actor.Name, restored)
		return nil
	}
	s.log.Add("That item can't be used here.")
	return fmt.Errorf("item %q: %w", a.ItemID, ErrInvalidAction)
}

// throwBall resolves a capture attempt. Submit only queues balls thrown by the
// player in a wild battle.
func (s *Session) throwBall(a Action) error {
	target := s.participants[SideOpponent]
	tmpl := target.Species
	attempt := capture.Attempt{
		Ball:        capture.Ball(a.ItemID),
		CurrentHP:   target.CurrentHP,
		MaxHP:       target.MaxHP,
		Status:      target.Status,
		TargetLevel: target.Level,
		PlayerLevel: s.ctx.PlayerLevel,
		Turn:        s.turn,
		Location:    s.ctx.Location,
	}
	data := capture.TemplateData{
		SpeciesID:      tmpl.ID,
		CaptureRate:    tmpl.CaptureRate,
		Types:          target.Types,
		BaseSpeed:      tmpl.BaseStats.Speed,
		Weight:         tmpl.Weight,
		EvolutionItems: tmpl.EvolutionItems,
	}
	res := s.capturer.Calculate(attempt, data)
	s.capture = &res
	s.log.Addf("You threw a %s!", itemName(a.ItemID))
	s.logger.Debug("capture attempt",
		zap.String("ball", a.ItemID),
		zap.Int("rate", res.CaptureRate),
		zap.Float64("probability", res.FinalProbability),
		zap.Int("shakes", res.ShakeCount),
		zap.Bool("success", res.Success),
	)
	if res.CriticalCapture {
		s.log.Add("A critical capture!")
	}
	if !res.Success {
		s.log.Add(breakFreeLines[min(res.ShakeCount, len(breakFreeLines)-1)])
		return nil
	}
	s.log.Addf("Gotcha! %s was caught!", target.Name)
	s.caught = true
	s.award(target)
	s.winner = WinnerPlayer
	return s.transition(eventWin)
}

var breakFreeLines = []string{
	"Oh no! The creature broke free!",
	"Aww! It appeared to be caught!",
	"Aargh! Almost had it!",
	"Gah! It was so close, too!",
}

// FleeBonus is added to the escape odds for every earlier failed attempt.
const FleeBonus = 30

func (s *Session) executeRun() error {
	ps := s.participants[SidePlayer].EffectiveSpeed()
	ws := s.participants[SideOpponent].EffectiveSpeed()
	escaped := ps >= ws
	if !escaped {
		odds := ps*128/max(ws, 1) + FleeBonus*s.fleeAttempts
		escaped = s.src.Intn(256) < odds
	}
	s.fleeAttempts++
	if !escaped {
		s.log.Add("Can't escape!")
		return nil
	}
	s.log.Add("Got away safely!")
	s.winner = WinnerDraw
	return s.transition(eventFlee)
}

// Experience is the reward for defeating a creature:
// max(1, floor(baseExperience × level / 7)).
func Experience(baseExperience, level int) int {
	return max(1, baseExperience*level/7)
}

func (s *Session) award(defeated *Participant) {
	s.expGained = Experience(defeated.Species.BaseExperience, defeated.Level)
	s.log.Addf("%s gained %d EXP. Points!", s.participants[SidePlayer].Name, s.expGained)
}

// checkBattleEnd moves the battle into a terminal phase when a participant
// has fainted. A fainted player creature is a defeat even if the opponent
// fainted too.
//
// Postcondition: Returns true iff the phase is terminal.
func (s *Session) checkBattleEnd() bool {
	if s.phase().Terminal() {
		return true
	}
	player, opp := s.participants[SidePlayer], s.participants[SideOpponent]
	if opp.Fainted() {
		s.log.Addf("%s fainted!", opp.Name)
	}
	if player.Fainted() {
		s.log.Addf("%s fainted!", player.Name)
		s.log.Add("You blacked out!")
		s.winner = WinnerOpponent
		if err := s.transition(eventLose); err != nil {
			s.logger.Error("phase transition failed", zap.Error(err))
		}
		return true
	}
	if opp.Fainted() {
		s.award(opp)
		s.winner = WinnerPlayer
		if err := s.transition(eventWin); err != nil {
			s.logger.Error("phase transition failed", zap.Error(err))
		}
		return true
	}
	return false
}

// Result returns a snapshot of the battle outcome.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := Result{
		ID:            s.id,
		Type:          s.ctx.Type,
		Player:        s.combatants[SidePlayer],
		Opponent:      s.combatants[SideOpponent],
		Phase:         s.phase(),
		Winner:        s.winner,
		ExpGained:     s.expGained,
		PokemonCaught: s.caught,
		Turns:         s.turn,
		BattleLog:     s.log.Entries(),
	}
	if s.capture != nil {
		c := *s.capture
		r.Capture = &c
	}
	return r
}
