package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"perceptron/common"
	"perceptron/core/ml"
	"perceptron/core/msgbus"
	"perceptron/core/trainer"
)

const schema = `
    CREATE TABLE IF NOT EXISTS runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL UNIQUE,
        started_at DATETIME NOT NULL,
        training_size INTEGER NOT NULL,
        test_size INTEGER NOT NULL,
        epochs INTEGER NOT NULL,
        learning_rate REAL NOT NULL
    );
    CREATE TABLE IF NOT EXISTS epochs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL,
        epoch INTEGER NOT NULL,
        tp INTEGER NOT NULL,
        tn INTEGER NOT NULL,
        fp INTEGER NOT NULL,
        fn INTEGER NOT NULL,
        accuracy REAL NOT NULL,
        bias REAL NOT NULL,
        sepal_len_w REAL NOT NULL,
        sepal_wid_w REAL NOT NULL,
        petal_len_w REAL NOT NULL,
        petal_wid_w REAL NOT NULL,
        UNIQUE(run_id, epoch)
    );
`

type Run struct {
	RunID        string
	StartedAt    time.Time
	TrainingSize int
	TestSize     int
	Epochs       int
	LearningRate float64
}

// Store records what each training run reported. It is a log only; nothing
// is ever loaded back into a perceptron.
type Store struct {
	db  *sql.DB
	log common.Logger
}

func Open(path string, log common.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open history %s", path)
	}
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "init history schema %s", path)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) HandleMsgFromMsgBus(msg *msgbus.BusMessage) error {
	switch msg.MsgType {
	case common.LocalTrainMsg_RunStart:
		info, ok := msg.Msg.(trainer.RunInfo)
		if !ok {
			return fmt.Errorf("unexpected payload %T for run start", msg.Msg)
		}
		return s.SaveRun(info)
	case common.LocalTrainMsg_Epoch:
		report, ok := msg.Msg.(trainer.EpochReport)
		if !ok {
			return fmt.Errorf("unexpected payload %T for epoch", msg.Msg)
		}
		return s.SaveEpoch(report)
	}
	return nil
}

func (s *Store) SaveRun(info trainer.RunInfo) error {
	_, err := s.db.Exec(`
        INSERT INTO runs (run_id, started_at, training_size, test_size, epochs, learning_rate)
        VALUES (?, ?, ?, ?, ?, ?)`,
		info.RunID, info.StartedAt.UTC(), info.TrainingSize, info.TestSize, info.Epochs, info.LearningRate)
	if err != nil {
		return errors.Wrapf(err, "save run %s", info.RunID)
	}
	s.log.Debugf("run[%s] recorded", info.RunID)
	return nil
}

func (s *Store) SaveEpoch(r trainer.EpochReport) error {
	w := r.Weights
	_, err := s.db.Exec(`
        INSERT OR REPLACE INTO epochs (
            run_id, epoch, tp, tn, fp, fn, accuracy,
            bias, sepal_len_w, sepal_wid_w, petal_len_w, petal_wid_w
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Epoch,
		r.Stats.TruePositives, r.Stats.TrueNegatives, r.Stats.FalsePositives, r.Stats.FalseNegatives,
		r.Stats.Accuracy,
		w.Bias, w.Features[0], w.Features[1], w.Features[2], w.Features[3],
	)
	if err != nil {
		return errors.Wrapf(err, "save run[%s] epoch[%d]", r.RunID, r.Epoch)
	}
	return nil
}

func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`
        SELECT run_id, started_at, training_size, test_size, epochs, learning_rate
        FROM runs
        ORDER BY started_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.TrainingSize, &r.TestSize, &r.Epochs, &r.LearningRate); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Epochs returns the stored reports of one run in epoch order.
func (s *Store) Epochs(runID string) ([]trainer.EpochReport, error) {
	rows, err := s.db.Query(`
        SELECT epoch, tp, tn, fp, fn, accuracy,
               bias, sepal_len_w, sepal_wid_w, petal_len_w, petal_wid_w
        FROM epochs
        WHERE run_id = ?
        ORDER BY epoch`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]trainer.EpochReport, 0)
	for rows.Next() {
		r := trainer.EpochReport{RunID: runID}
		var st ml.Stats
		var w ml.Weights
		err := rows.Scan(&r.Epoch, &st.TruePositives, &st.TrueNegatives, &st.FalsePositives, &st.FalseNegatives,
			&st.Accuracy, &w.Bias, &w.Features[0], &w.Features[1], &w.Features[2], &w.Features[3])
		if err != nil {
			return nil, err
		}
		r.Stats = st
		r.Weights = w
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
