package pattern

// DefaultVersion identifies the built-in catalog. Bump it whenever an entry,
// weight, or ordering changes so stored evaluations can be traced to the
// catalog that produced them.
const DefaultVersion = "dream-patterns/2"

// Tag names in catalog order.
const (
	TagFlying    = "flying"
	TagFalling   = "falling"
	TagChase     = "chase"
	TagTeeth     = "teeth"
	TagWater     = "water"
	TagBuildings = "buildings"
	TagFamily    = "family"
	TagSchool    = "school"
	TagWork      = "work"
	TagCreatures = "creatures"
	TagVehicles  = "vehicles"
	TagRomance   = "romance"
	TagFear      = "fear"
	TagLucid     = "lucid"
	TagChildhood = "childhood"
)

// Theme names in catalog order.
const (
	ThemeLossOfControl   = "Loss of control"
	ThemeBeingChased     = "Being chased"
	ThemeFalling         = "Falling"
	ThemeBeingUnprepared = "Being unprepared"
	ThemeFindingNewRooms = "Finding new rooms"
	ThemeFlying          = "Flying"
)

// Rarity cue names.
const (
	CueVivid     = "vivid"
	CueLucid     = "lucid"
	CueRecurring = "recurring"
)

// emotionWeight is the per-hit weight shared by every emotion.
const emotionWeight = 0.2

// NewDefault builds the built-in catalog.
//
// Each call returns a fresh Library; callers construct it once and share the
// pointer with every evaluator.
func NewDefault() *Library {
	entries := make([]Entry, 0, 56)
	entries = append(entries, authenticityEntries()...)
	entries = append(entries, tagEntries()...)
	entries = append(entries, emotionEntries()...)
	entries = append(entries, themeEntries()...)
	entries = append(entries, rarityCueEntries()...)
	return New(DefaultVersion, entries...)
}

// authenticityEntries are the signed authenticity cues. Naming the dream
// outright is a negative cue: genuine recollections rarely label themselves.
func authenticityEntries() []Entry {
	signal := func(expr string, weight float64) Entry {
		return Entry{Kind: KindAuthenticity, Matcher: Regex(expr), Weight: weight}
	}
	return []Entry{
		signal(`I (was|found myself|appeared)\s`, 0.1),
		signal(`(suddenly|then|after that)`, 0.05),
		signal(`(could not|couldn't) (move|run|scream|speak)`, 0.15),
		signal(`(flying|falling|chasing|running)`, 0.1),
		signal(`(strange|weird|bizarre|odd)`, 0.05),
		signal(`(dream|dreaming|dreamt)`, -0.1),
		signal(`\b(in my dream|my dream was about)\b`, -0.1),
		signal(`I (woke up|realized it was a dream)`, 0.1),
		signal(`(the scene (changed|shifted)|everything (changed|transformed))`, 0.15),
		signal(`(colors were (vivid|bright|unusual)|everything (glowed|shimmered))`, 0.1),
		signal(`(time (was different|seemed to slow|moved quickly))`, 0.1),
		signal(`(people|faces) (morphed|changed|transformed)`, 0.15),
		signal(`(impossible|defied physics|unnatural)`, 0.1),
		signal(`(familiar but different|recognized but wrong)`, 0.1),
	}
}

func tagEntries() []Entry {
	tag := func(name, expr string) Entry {
		return Entry{Kind: KindTag, Matcher: Regex(expr), Tag: name}
	}
	return []Entry{
		tag(TagFlying, `(flying|float|floating|levitate|hover)`),
		tag(TagFalling, `(falling|fell|dropping)`),
		tag(TagChase, `(chase|chasing|chased|running from|escape)`),
		tag(TagTeeth, `(teeth|dental|mouth)`),
		tag(TagWater, `(water|ocean|sea|lake|swimming|drowning)`),
		tag(TagBuildings, `(house|home|building|room)`),
		tag(TagFamily, `(family|mother|father|sister|brother|parent)`),
		tag(TagSchool, `(school|classroom|teacher|student)`),
		tag(TagWork, `(work|office|job|colleague|boss)`),
		tag(TagCreatures, `(animal|creature|beast|monster)`),
		tag(TagVehicles, `(car|vehicle|driving|road|highway)`),
		tag(TagRomance, `(love|relationship|partner|kiss)`),
		tag(TagFear, `(fear|afraid|scared|terror|horror)`),
		tag(TagLucid, `(lucid|aware|conscious|control)`),
		tag(TagChildhood, `(childhood|young|kid|past)`),
	}
}

func emotionEntries() []Entry {
	emotion := func(e Emotion, expr string) Entry {
		return Entry{Kind: KindEmotion, Matcher: Regex(expr), Emotion: e, Weight: emotionWeight}
	}
	return []Entry{
		emotion(EmotionFear, `(scared|afraid|terrified|fear|horror|terror)`),
		emotion(EmotionJoy, `(happy|joy|delighted|pleased|fun|excited)`),
		emotion(EmotionSadness, `(sad|crying|tears|depressed|miserable|upset)`),
		emotion(EmotionConfusion, `(confused|confusing|unclear|strange|weird|bizarre)`),
		emotion(EmotionAnxiety, `(anxious|worried|nervous|stress|panic)`),
		emotion(EmotionExcitement, `(thrill|exciting|adventure|amazed|wonderful)`),
	}
}

func themeEntries() []Entry {
	theme := func(name, description, expr string) Entry {
		return Entry{Kind: KindTheme, Matcher: Regex(expr), Theme: name, Description: description}
	}
	return []Entry{
		theme(ThemeLossOfControl,
			"Dreams where you cannot control your surroundings or actions",
			`(couldn't (control|move|run|stop|speak)|no control|helpless)`),
		theme(ThemeBeingChased,
			"Dreams where you are being pursued or hunted",
			`(chased|pursued|running from|hunting|following me|after me)`),
		theme(ThemeFalling,
			"Dreams where you are falling from heights",
			`(falling|fell|dropped|dropping|plummeting)`),
		theme(ThemeBeingUnprepared,
			"Dreams where you are faced with a task you are not prepared for",
			`(test|exam|not prepared|not ready|late|missed|forgot)`),
		theme(ThemeFindingNewRooms,
			"Dreams where you discover new spaces in familiar places",
			`(new room|hidden door|secret passage|never seen before|found a room)`),
		theme(ThemeFlying,
			"Dreams where you can fly or float in the air",
			`(fly|flying|float|floating|hovering|levitating)`),
	}
}

// rarityCueEntries carry their discrete-model point value as the weight.
// The lucid cue reads the narrative directly so it still fires when the
// lucid tag was cut by the AI tag cap.
func rarityCueEntries() []Entry {
	return []Entry{
		{Kind: KindRarityCue, Matcher: Regex(`(colou?r|vivid)`), Cue: CueVivid, Weight: 1},
		{Kind: KindRarityCue, Matcher: Regex(`(lucid|aware|control)`), Cue: CueLucid, Weight: 2},
		{Kind: KindRarityCue, Matcher: Keywords("recurring"), Cue: CueRecurring, Weight: -1},
	}
}
