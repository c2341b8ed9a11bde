package report

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/olekukonko/tablewriter"

	"perceptron/common"
	"perceptron/core/ml"
	"perceptron/core/msgbus"
	"perceptron/core/trainer"
)

// Reporter prints every epoch's confusion matrix as a 2x2 table followed by
// the accuracy line.
type Reporter struct {
	out   io.Writer
	log   common.Logger
	mutex sync.Mutex
}

func NewReporter(out io.Writer, log common.Logger) *Reporter {
	return &Reporter{out: out, log: log}
}

func (r *Reporter) HandleMsgFromMsgBus(msg *msgbus.BusMessage) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	switch msg.MsgType {
	case common.LocalTrainMsg_RunStart:
		info, ok := msg.Msg.(trainer.RunInfo)
		if !ok {
			return fmt.Errorf("unexpected payload %T for run start", msg.Msg)
		}
		_, err := fmt.Fprintf(r.out, "Run %s: %d epochs, learning rate %v\n", info.RunID, info.Epochs, info.LearningRate)
		return err
	case common.LocalTrainMsg_Epoch:
		report, ok := msg.Msg.(trainer.EpochReport)
		if !ok {
			return fmt.Errorf("unexpected payload %T for epoch", msg.Msg)
		}
		return r.WriteEpoch(report)
	case common.LocalTrainMsg_RunFinish:
		res, ok := msg.Msg.(trainer.Result)
		if !ok {
			return fmt.Errorf("unexpected payload %T for run finish", msg.Msg)
		}
		_, err := fmt.Fprintf(r.out, "Final weights: %s\n", res.Final)
		return err
	default:
		r.log.Warnf("ignore msg type[%#x]", uint32(msg.MsgType))
	}
	return nil
}

// WriteEpoch renders one report.
func (r *Reporter) WriteEpoch(report trainer.EpochReport) error {
	if _, err := fmt.Fprintf(r.out, "Epoch %d\n", report.Epoch); err != nil {
		return err
	}
	RenderStats(r.out, report.Stats)
	_, err := fmt.Fprintf(r.out, "Accuracy: %f\n", report.Stats.Accuracy)
	return err
}

// RenderStats writes the table
//
//	  P   N
//	T tp  tn
//	F fp  fn
func RenderStats(w io.Writer, s ml.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "P", "N"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator(" ")
	table.SetCenterSeparator(" ")
	table.Append([]string{"T", strconv.Itoa(s.TruePositives), strconv.Itoa(s.TrueNegatives)})
	table.Append([]string{"F", strconv.Itoa(s.FalsePositives), strconv.Itoa(s.FalseNegatives)})
	table.Render()
}
