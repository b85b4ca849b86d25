package valve

// ValveID identifies a zone valve on an Interface
type ValveID = uint16

// Interface is implemented by structs which are able to interface with
// hardware for opening and closing irrigation zone valves. It is not
// necessarily backed by hardware (as in MockInterface).
type Interface interface {
	Name() string

	Initialize() error
	Deinitialize() error

	Count() ValveID
	Set(valve ValveID, open bool)
	Get(valve ValveID) (open bool)
}
