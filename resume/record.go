package resume

import "encoding/json"

// Record 是一份简历的全部输入。各部分均可缺省：指针为 nil 或切片为 nil 表示该部分不存在，
// 渲染时整段跳过。
type Record struct {
	PersonalDetails   *PersonalDetails `json:"PersonalDetails,omitempty"`
	PersonalStatement *string          `json:"PersonalStatement,omitempty"`
	Education         []Education      `json:"Education,omitempty"`
	WorkExperience    []WorkExperience `json:"WorkExperience,omitempty"`
	Skills            []SkillGroup     `json:"Skills,omitempty"`
}

type PersonalDetails struct {
	Name            string    `json:"Name"`
	CurrentPosition string    `json:"CurrentPosition"`
	Email           string    `json:"Email"`
	Telephone       string    `json:"Telephone"`
	Address         string    `json:"Address"`
	WebSites        []WebSite `json:"WebSites"`
}

// WebSite 渲染为一行 [Name](Link)。
type WebSite struct {
	Name string `json:"Name"`
	Link string `json:"Link"`
}

type Education struct {
	Degree     string `json:"Degree"`
	University string `json:"University"`
	Dates      string `json:"Dates"`
	Comments   string `json:"Comments"`
}

// WorkExperience 中 Title 对应 JSON 的 Name 字段。
type WorkExperience struct {
	Title        string
	Organisation string
	Dates        string
	Description  Description
}

type workExperienceJSON struct {
	Name         string    `json:"Name"`
	Organisation string    `json:"Organisation"`
	Dates        string    `json:"Dates"`
	Description  string    `json:"Description"`
	List         *[]string `json:"List,omitempty"`
}

// UnmarshalJSON 在没有 List 字段时把 Description 视为旧格式 Combined。
func (w *WorkExperience) UnmarshalJSON(data []byte) error {
	var raw workExperienceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	w.Title = raw.Name
	w.Organisation = raw.Organisation
	w.Dates = raw.Dates
	if raw.List != nil {
		w.Description = Structured(raw.Description, *raw.List)
	} else {
		w.Description = Combined(raw.Description)
	}
	return nil
}

// MarshalJSON 总是输出 Structured 形态。
func (w WorkExperience) MarshalJSON() ([]byte, error) {
	bullets := w.Description.Bullets()
	return json.Marshal(workExperienceJSON{
		Name:         w.Title,
		Organisation: w.Organisation,
		Dates:        w.Dates,
		Description:  w.Description.Summary(),
		List:         &bullets,
	})
}

func (w *WorkExperience) Summary() string   { return w.Description.Summary() }
func (w *WorkExperience) Bullets() []string { return w.Description.Bullets() }

type SkillGroup struct {
	Name string   `json:"Name"`
	List []string `json:"List"`
}

// Normalize 将所有工作经历的描述统一为 Structured。
func (r *Record) Normalize() {
	for i := range r.WorkExperience {
		r.WorkExperience[i].Description = r.WorkExperience[i].Description.Normalize()
	}
}
