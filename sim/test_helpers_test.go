package sim

// newTestHost creates a host with numPes PEs of peMips each and generous RAM/BW/storage.
func newTestHost(id, numPes int, peMips float64) *Host {
	return NewUniformHost(id, numPes, peMips, 16384, 10000, 1000000)
}

// newTestVm creates a single-core VM with small RAM/BW/storage requests.
func newTestVm(id int, mips float64, sched CloudletScheduler) *Vm {
	return NewVm(id, mips, 1, 512, 100, 1000, sched)
}

// newTestCloudlets creates n single-core cloudlets of the given length, IDs 0..n-1.
func newTestCloudlets(n int, length int64) []*Cloudlet {
	cs := make([]*Cloudlet, n)
	for i := range cs {
		cs[i] = NewCloudlet(i, length, 1)
	}
	return cs
}

// runSimulation builds a simulator over hosts, submits vms and cloudlets and runs it.
func runSimulation(cfg Config, hosts []*Host, vms []*Vm, cloudlets []*Cloudlet) (*Simulator, *Result) {
	s := NewSimulator(cfg, hosts)
	s.Broker().SubmitVms(vms)
	s.Broker().SubmitCloudlets(cloudlets)
	res, err := s.RunUntilComplete()
	if err != nil {
		panic(err)
	}
	return s, res
}

// resultByID indexes a result's cloudlets by ID.
func resultByID(res *Result) map[int]CloudletResult {
	out := make(map[int]CloudletResult, len(res.Cloudlets))
	for _, c := range res.Cloudlets {
		out[c.ID] = c
	}
	return out
}

// stubEvent is an inert event used to exercise the queue on its own.
type stubEvent struct {
	time float64
	id   int
}

func (e *stubEvent) Timestamp() float64  { return e.time }
func (e *stubEvent) Kind() EventKind     { return "stub" }
func (e *stubEvent) Execute(_ *Simulator) {}
