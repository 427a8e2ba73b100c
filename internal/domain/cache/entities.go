package cache

// Entry 缓存槽位实体
// 代表定长槽位数组中的一个槽位，包含键、值、占用与脏标记
// 各淘汰策略在自己的槽位类型中嵌入Entry，并附加各自的排序元数据
type Entry struct {
	key      CacheKey
	value    CacheValue
	occupied bool
}

// Key 获取缓存键
func (e *Entry) Key() CacheKey {
	return e.key
}

// Value 获取缓存值
func (e *Entry) Value() CacheValue {
	return e.value
}

// IsOccupied 检查槽位是否持有有效条目
func (e *Entry) IsOccupied() bool {
	return e.occupied
}

// IsDirty 检查是否为脏数据
// 只有被占用的槽位才可能是脏的
func (e *Entry) IsDirty() bool {
	return e.occupied && e.value.IsDirty()
}

// Holds 检查槽位是否持有指定键
func (e *Entry) Holds(key CacheKey) bool {
	return e.occupied && e.key.Equals(key)
}

// Occupy 用新的键值占用槽位
// 原有内容被直接覆盖，调用方需先完成写回
// data的长度由调用方通过ValidateValue校验
func (e *Entry) Occupy(key CacheKey, data string, dirty bool) {
	e.key = key
	e.value = CacheValue{data: data, isDirty: dirty}
	e.occupied = true
}

// Update 更新槽位中的值
// dirty为true时标记为脏数据；为false时保留原有的脏标记
func (e *Entry) Update(data string, dirty bool) {
	v := CacheValue{data: data, isDirty: e.value.isDirty}
	if dirty {
		v = v.MarkDirty()
	}
	e.value = v
}

// MarkClean 标记为干净数据
func (e *Entry) MarkClean() {
	e.value = e.value.MarkClean()
}

// Vacate 清空槽位
// 占用与脏标记同时清除
func (e *Entry) Vacate() {
	e.key = CacheKey{}
	e.value = CacheValue{}
	e.occupied = false
}
